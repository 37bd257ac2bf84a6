package admin

import (
	"restaurant-app/internal/app/http/validation"
	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/site"

	"github.com/gin-gonic/gin"
)

const (
	PathCompany = "/admin/company"
	PathTerms   = "/admin/terms"
)

type companyInput struct {
	Name              string `form:"name" json:"name" binding:"required,max=255"`
	PostalCode        string `form:"postal_code" json:"postal_code" binding:"required,len=7,digits"`
	Address           string `form:"address" json:"address" binding:"required,max=255"`
	Representative    string `form:"representative" json:"representative" binding:"required,max=255"`
	EstablishmentDate string `form:"establishment_date" json:"establishment_date" binding:"required,max=255"`
	Capital           string `form:"capital" json:"capital" binding:"required,max=255"`
	Business          string `form:"business" json:"business" binding:"required"`
	NumberOfEmployees string `form:"number_of_employees" json:"number_of_employees" binding:"required,max=255"`
}

type termInput struct {
	Content string `form:"content" json:"content" binding:"required"`
}

// GET /admin/company
func (h *Handler) CompanyIndex(c *gin.Context) {
	var company site.Company
	if err := h.DB.WithContext(c.Request.Context()).Order("id ASC").First(&company).Error; err != nil {
		web.DBError(c, err, "Failed to load company")
		return
	}
	web.Page(c, gin.H{"company": company})
}

func (h *Handler) loadCompany(c *gin.Context) (*site.Company, bool) {
	id, ok := web.ParseID(c, "company")
	if !ok {
		web.NotFound(c)
		return nil, false
	}
	var company site.Company
	if err := h.DB.WithContext(c.Request.Context()).First(&company, id).Error; err != nil {
		web.DBError(c, err, "Failed to load company")
		return nil, false
	}
	return &company, true
}

// GET /admin/company/:company/edit
func (h *Handler) CompanyEdit(c *gin.Context) {
	company, ok := h.loadCompany(c)
	if !ok {
		return
	}
	web.Page(c, gin.H{"company": company})
}

// PATCH /admin/company/:company
func (h *Handler) CompanyUpdate(c *gin.Context) {
	company, ok := h.loadCompany(c)
	if !ok {
		return
	}
	var in companyInput
	if !validation.Bind(c, &in) {
		return
	}

	err := h.DB.WithContext(c.Request.Context()).Model(company).Updates(map[string]interface{}{
		"name":                in.Name,
		"postal_code":         in.PostalCode,
		"address":             in.Address,
		"representative":      in.Representative,
		"establishment_date":  in.EstablishmentDate,
		"capital":             in.Capital,
		"business":            in.Business,
		"number_of_employees": in.NumberOfEmployees,
	}).Error
	if err != nil {
		web.ServerError(c, err, "Failed to update company")
		return
	}
	web.Redirect(c, PathCompany, web.FlashSuccess, "The company profile has been updated.")
}

// GET /admin/terms
func (h *Handler) TermIndex(c *gin.Context) {
	var term site.Term
	if err := h.DB.WithContext(c.Request.Context()).Order("id ASC").First(&term).Error; err != nil {
		web.DBError(c, err, "Failed to load terms")
		return
	}
	web.Page(c, gin.H{"term": term})
}

func (h *Handler) loadTerm(c *gin.Context) (*site.Term, bool) {
	id, ok := web.ParseID(c, "term")
	if !ok {
		web.NotFound(c)
		return nil, false
	}
	var term site.Term
	if err := h.DB.WithContext(c.Request.Context()).First(&term, id).Error; err != nil {
		web.DBError(c, err, "Failed to load terms")
		return nil, false
	}
	return &term, true
}

// GET /admin/terms/:term/edit
func (h *Handler) TermEdit(c *gin.Context) {
	term, ok := h.loadTerm(c)
	if !ok {
		return
	}
	web.Page(c, gin.H{"term": term})
}

// PATCH /admin/terms/:term
func (h *Handler) TermUpdate(c *gin.Context) {
	term, ok := h.loadTerm(c)
	if !ok {
		return
	}
	var in termInput
	if !validation.Bind(c, &in) {
		return
	}

	if err := h.DB.WithContext(c.Request.Context()).Model(term).Update("content", in.Content).Error; err != nil {
		web.ServerError(c, err, "Failed to update terms")
		return
	}
	web.Redirect(c, PathTerms, web.FlashSuccess, "The terms of service have been updated.")
}
