package middleware

import (
	"bytes"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"
)

// Fields whose values must reach the handler byte for byte.
var rawFields = map[string]bool{
	"password":              true,
	"password_confirmation": true,
	"payment_method_id":     true,
	"_method":               true,
}

// SanitizeAndCleanInputMiddleware strips markup from every string field of
// form and JSON bodies using bluemonday.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch &&
			c.Request.Method != http.MethodDelete {
			c.Next()
			return
		}

		contentType := c.ContentType()
		switch {
		case contentType == gin.MIMEJSON:
			if !sanitizeJSON(c, policy) {
				return
			}
		case contentType == gin.MIMEPOSTForm || strings.HasPrefix(contentType, gin.MIMEMultipartPOSTForm):
			if err := c.Request.ParseMultipartForm(32 << 20); err != nil && err != http.ErrNotMultipart {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
				return
			}
			sanitizeValues(c.Request.PostForm, policy)
			sanitizeValues(c.Request.Form, policy)
		}

		c.Next()
	}
}

// cleanText strips markup and stores plain text. bluemonday escapes what it
// keeps, so the result is unescaped and stripped again until it settles;
// escaped tags cannot come back as markup.
func cleanText(policy *bluemonday.Policy, s string) string {
	for i := 0; i < 4; i++ {
		next := html.UnescapeString(policy.Sanitize(s))
		if next == s {
			return s
		}
		s = next
	}
	return policy.Sanitize(s)
}

func sanitizeValues(values map[string][]string, policy *bluemonday.Policy) {
	for k, vs := range values {
		if rawFields[k] {
			continue
		}
		for i, v := range vs {
			vs[i] = cleanText(policy, v)
		}
	}
}

func sanitizeJSON(c *gin.Context, policy *bluemonday.Policy) bool {
	buf, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return false
	}
	if len(bytes.TrimSpace(buf)) == 0 {
		c.Request.Body = io.NopCloser(bytes.NewReader(buf))
		return true
	}

	var body map[string]interface{}
	if err := json.Unmarshal(buf, &body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
		return false
	}

	for k, v := range body {
		if rawFields[k] {
			continue
		}
		body[k] = sanitizeAny(v, policy)
	}

	newBody, _ := json.Marshal(body)
	c.Request.Body = io.NopCloser(bytes.NewBuffer(newBody))
	c.Request.ContentLength = int64(len(newBody))
	return true
}

func sanitizeAny(v interface{}, policy *bluemonday.Policy) interface{} {
	switch t := v.(type) {
	case string:
		return cleanText(policy, t)
	case []interface{}:
		for i := range t {
			t[i] = sanitizeAny(t[i], policy)
		}
		return t
	default:
		return v
	}
}
