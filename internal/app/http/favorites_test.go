package routes_test

import (
	"fmt"
	"net/http"
	"testing"

	"restaurant-app/internal/domain/restaurants"
	"restaurant-app/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteToggle(t *testing.T) {
	app := newTestApp(t)
	m := testutil.CreatePremiumMember(t, app.db, app.provider)
	r := testutil.CreateRestaurant(t, app.db)
	path := fmt.Sprintf("/favorites/%d", r.ID)
	show := fmt.Sprintf("/restaurants/%d", r.ID)

	requireRedirect(t, app.request(http.MethodPost, path, nil, member(m.ID)), show)
	// Adding twice keeps a single row.
	requireRedirect(t, app.request(http.MethodPost, path, nil, member(m.ID)), show)
	assert.Equal(t, int64(1), count(t, app.db, &restaurants.Favorite{}, "member_id = ?", m.ID))

	w := app.get(show, member(m.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["favorited"])

	w = app.request(http.MethodDelete, path, nil, member(m.ID), "Referer", "http://example.com/favorites?page=2")
	requireRedirect(t, w, "/favorites?page=2")
	assert.Zero(t, count(t, app.db, &restaurants.Favorite{}, "member_id = ?", m.ID))
}

func TestFavoriteRedirectStaysOnSite(t *testing.T) {
	app := newTestApp(t)
	m := testutil.CreatePremiumMember(t, app.db, app.provider)
	r := testutil.CreateRestaurant(t, app.db)
	path := fmt.Sprintf("/favorites/%d", r.ID)
	show := fmt.Sprintf("/restaurants/%d", r.ID)

	for _, referer := range []string{
		"https://evil.example//evil.example/phish",
		`https://evil.example/\evil.example`,
		"//evil.example/x",
	} {
		t.Run(referer, func(t *testing.T) {
			w := app.request(http.MethodPost, path, nil, member(m.ID), "Referer", referer)
			requireRedirect(t, w, show)
		})
	}
}

func TestFavoriteUnknownRestaurantIsNotFound(t *testing.T) {
	app := newTestApp(t)
	m := testutil.CreatePremiumMember(t, app.db, app.provider)

	assert.Equal(t, http.StatusNotFound, app.request(http.MethodPost, "/favorites/999", nil, member(m.ID)).Code)
}

func TestFavoriteIndexListsOwnFavorites(t *testing.T) {
	app := newTestApp(t)
	m := testutil.CreatePremiumMember(t, app.db, app.provider)
	other := testutil.CreateMember(t, app.db)
	first := testutil.CreateRestaurant(t, app.db)
	second := testutil.CreateRestaurant(t, app.db)
	testutil.CreateFavorite(t, app.db, m.ID, first.ID)
	testutil.CreateFavorite(t, app.db, m.ID, second.ID)
	testutil.CreateFavorite(t, app.db, other.ID, first.ID)

	w := app.get("/favorites", member(m.ID))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	list := body["favorites"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, float64(second.ID), list[0].(map[string]any)["restaurant_id"])
	assert.Equal(t, float64(first.ID), list[1].(map[string]any)["restaurant_id"])
	assert.Equal(t, float64(2), body["pagination"].(map[string]any)["total"])
}
