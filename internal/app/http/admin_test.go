package routes_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"restaurant-app/internal/domain/restaurants"
	"restaurant-app/internal/domain/reviews"
	"restaurant-app/internal/domain/site"
	"restaurant-app/internal/domain/users"
	"restaurant-app/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restaurantForm(categoryIDs ...uint) url.Values {
	v := url.Values{
		"name":             {"Sushi Ichiban"},
		"description":      {"Fresh fish every morning"},
		"lowest_price":     {"3000"},
		"highest_price":    {"8000"},
		"postal_code":      {"4600008"},
		"address":          {"Naka, Nagoya"},
		"opening_time":     {"11:30"},
		"closing_time":     {"22:00"},
		"seating_capacity": {"20"},
	}
	for _, id := range categoryIDs {
		v.Add("category_ids", fmt.Sprint(id))
	}
	return v
}

func TestAdminDashboardCounts(t *testing.T) {
	app := newTestApp(t)
	a := testutil.CreateAdmin(t, app.db)
	testutil.CreateMember(t, app.db)
	testutil.CreatePremiumMember(t, app.db, app.provider)
	testutil.CreateRestaurant(t, app.db)

	w := app.get("/admin", admin(a.ID))
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody(t, w)["stats"].(map[string]any)
	assert.Equal(t, float64(2), stats["total_members"])
	assert.Equal(t, float64(1), stats["premium_members"])
	assert.Equal(t, float64(1), stats["free_members"])
	assert.Equal(t, float64(1), stats["total_restaurants"])
	assert.Equal(t, float64(300), stats["monthly_sales"])
	assert.Empty(t, app.provider.Calls())
}

func TestAdminCreateRestaurantWithCategories(t *testing.T) {
	app := newTestApp(t)
	a := testutil.CreateAdmin(t, app.db)
	sushi := testutil.CreateCategory(t, app.db, "Sushi")
	seafood := testutil.CreateCategory(t, app.db, "Seafood")

	w := app.request(http.MethodPost, "/admin/restaurants", restaurantForm(sushi.ID, seafood.ID), admin(a.ID))
	requireRedirect(t, w, "/admin/restaurants")

	var r restaurants.Restaurant
	require.NoError(t, app.db.Preload("Categories").Where("name = ?", "Sushi Ichiban").First(&r).Error)
	assert.Equal(t, 3000, r.LowestPrice)
	assert.ElementsMatch(t, []uint{sushi.ID, seafood.ID}, r.CategoryIDs())
}

func TestAdminRestaurantValidation(t *testing.T) {
	app := newTestApp(t)
	a := testutil.CreateAdmin(t, app.db)
	var cats []uint
	for _, name := range []string{"A", "B", "C", "D"} {
		cats = append(cats, testutil.CreateCategory(t, app.db, name).ID)
	}

	cases := map[string]struct {
		form  url.Values
		field string
	}{
		"postal code six digits":   {withField(restaurantForm(), "postal_code", "460000"), "postal_code"},
		"postal code eight digits": {withField(restaurantForm(), "postal_code", "46000081"), "postal_code"},
		"price range inverted":     {withField(restaurantForm(), "lowest_price", "9000"), "lowest_price"},
		"negative price":           {withField(restaurantForm(), "highest_price", "-1"), "highest_price"},
		"too many categories":      {restaurantForm(cats...), "category_ids"},
		"unknown category":         {restaurantForm(999), "category_ids"},
		"bad opening time":         {withField(restaurantForm(), "opening_time", "25:00"), "opening_time"},
		"missing name":             {withField(restaurantForm(), "name", ""), "name"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := app.request(http.MethodPost, "/admin/restaurants", tc.form, admin(a.ID))
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			assert.Contains(t, decodeBody(t, w)["errors"], tc.field)
		})
	}
	assert.Zero(t, count(t, app.db, &restaurants.Restaurant{}, ""))

	requireRedirect(t, app.request(http.MethodPost, "/admin/restaurants", restaurantForm(cats[:3]...), admin(a.ID)), "/admin/restaurants")
}

func withField(v url.Values, key, value string) url.Values {
	v.Set(key, value)
	return v
}

func TestAdminUpdateRestaurantReplacesCategories(t *testing.T) {
	app := newTestApp(t)
	a := testutil.CreateAdmin(t, app.db)
	sushi := testutil.CreateCategory(t, app.db, "Sushi")
	ramen := testutil.CreateCategory(t, app.db, "Ramen")
	r := testutil.CreateRestaurant(t, app.db, func(r *restaurants.Restaurant) {
		r.Categories = []restaurants.Category{*sushi}
	})

	path := fmt.Sprintf("/admin/restaurants/%d", r.ID)
	requireRedirect(t, app.request(http.MethodPatch, path, restaurantForm(ramen.ID), admin(a.ID)), path)

	var got restaurants.Restaurant
	require.NoError(t, app.db.Preload("Categories").First(&got, r.ID).Error)
	assert.Equal(t, "Sushi Ichiban", got.Name)
	assert.Equal(t, []uint{ramen.ID}, got.CategoryIDs())

	requireRedirect(t, app.request(http.MethodPatch, path, restaurantForm(), admin(a.ID)), path)
	require.NoError(t, app.db.Preload("Categories").First(&got, r.ID).Error)
	assert.Empty(t, got.Categories)
}

func TestAdminDeleteRestaurantRemovesDependents(t *testing.T) {
	app := newTestApp(t)
	a := testutil.CreateAdmin(t, app.db)
	m := testutil.CreateMember(t, app.db)
	cat := testutil.CreateCategory(t, app.db, "Sushi")
	r := testutil.CreateRestaurant(t, app.db, func(r *restaurants.Restaurant) {
		r.Categories = []restaurants.Category{*cat}
	})
	keep := testutil.CreateRestaurant(t, app.db)
	testutil.CreateReview(t, app.db, m.ID, r.ID, 5)
	testutil.CreateReview(t, app.db, m.ID, keep.ID, 5)
	testutil.CreateReservation(t, app.db, m.ID, r.ID, testTime())
	testutil.CreateFavorite(t, app.db, m.ID, r.ID)

	requireRedirect(t, app.request(http.MethodDelete, fmt.Sprintf("/admin/restaurants/%d", r.ID), nil, admin(a.ID)), "/admin/restaurants")

	assert.Zero(t, count(t, app.db, &restaurants.Restaurant{}, "id = ?", r.ID))
	assert.Zero(t, count(t, app.db, &reviews.Review{}, "restaurant_id = ?", r.ID))
	assert.Equal(t, int64(1), count(t, app.db, &reviews.Review{}, "restaurant_id = ?", keep.ID))
	assert.Zero(t, count(t, app.db, &restaurants.Favorite{}, "restaurant_id = ?", r.ID))
	assert.Equal(t, int64(1), count(t, app.db, &restaurants.Category{}, "id = ?", cat.ID))

	assert.Equal(t, http.StatusNotFound, app.get(fmt.Sprintf("/admin/restaurants/%d", r.ID), admin(a.ID)).Code)
}

func TestAdminRestaurantIndexKeyword(t *testing.T) {
	app := newTestApp(t)
	a := testutil.CreateAdmin(t, app.db)
	testutil.CreateRestaurant(t, app.db, func(r *restaurants.Restaurant) { r.Name = "Miso Katsu House" })
	testutil.CreateRestaurant(t, app.db, func(r *restaurants.Restaurant) { r.Name = "Tebasaki Bar" })

	w := app.get("/admin/restaurants?keyword=katsu", admin(a.ID))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["total"])
}

func TestAdminCategoryLifecycle(t *testing.T) {
	app := newTestApp(t)
	a := testutil.CreateAdmin(t, app.db)

	requireRedirect(t, app.request(http.MethodPost, "/admin/categories", url.Values{"name": {"Udon"}}, admin(a.ID)), "/admin/categories")
	var cat restaurants.Category
	require.NoError(t, app.db.Where("name = ?", "Udon").First(&cat).Error)

	w := app.request(http.MethodPost, "/admin/categories", url.Values{"name": {""}}, admin(a.ID))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	path := fmt.Sprintf("/admin/categories/%d", cat.ID)
	requireRedirect(t, app.request(http.MethodPatch, path, url.Values{"name": {"Kishimen"}}, admin(a.ID)), "/admin/categories")
	require.NoError(t, app.db.First(&cat, cat.ID).Error)
	assert.Equal(t, "Kishimen", cat.Name)

	r := testutil.CreateRestaurant(t, app.db, func(r *restaurants.Restaurant) {
		r.Categories = []restaurants.Category{cat}
	})
	requireRedirect(t, app.request(http.MethodDelete, path, nil, admin(a.ID)), "/admin/categories")
	assert.Zero(t, count(t, app.db, &restaurants.Category{}, "id = ?", cat.ID))

	var links int64
	require.NoError(t, app.db.Table("category_restaurant").Where("restaurant_id = ?", r.ID).Count(&links).Error)
	assert.Zero(t, links)

	w = app.get("/admin/categories?keyword=nothing", admin(a.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(t, w)["total"])
}

func TestAdminUserSearch(t *testing.T) {
	app := newTestApp(t)
	a := testutil.CreateAdmin(t, app.db)
	hanako := testutil.CreateMember(t, app.db, func(m *users.Member) { m.Name = "Hanako Sato"; m.Kana = "Sato Hanako" })
	testutil.CreateMember(t, app.db, func(m *users.Member) { m.Name = "Jiro Suzuki"; m.Kana = "Suzuki Jiro" })

	w := app.get("/admin/users?keyword=hanako", admin(a.ID))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, float64(1), body["total"])
	list := body["users"].([]any)
	assert.Equal(t, float64(hanako.ID), list[0].(map[string]any)["id"])
	assert.NotContains(t, list[0].(map[string]any), "password")

	assert.Equal(t, http.StatusOK, app.get(fmt.Sprintf("/admin/users/%d", hanako.ID), admin(a.ID)).Code)
	assert.Equal(t, http.StatusNotFound, app.get("/admin/users/999", admin(a.ID)).Code)
}

func TestAdminCompanyUpdate(t *testing.T) {
	app := newTestApp(t)
	a := testutil.CreateAdmin(t, app.db)
	company := testutil.CreateCompany(t, app.db)
	path := fmt.Sprintf("/admin/company/%d", company.ID)

	form := url.Values{
		"name":                {"Nagoya Meshi Ltd."},
		"postal_code":         {"4600008"},
		"address":             {"Naka, Nagoya"},
		"representative":      {"Hanako Sato"},
		"establishment_date":  {"2020-01-01"},
		"capital":             {"5,000,000"},
		"business":            {"Restaurant reviews"},
		"number_of_employees": {"8"},
	}
	requireRedirect(t, app.request(http.MethodPatch, path, form, admin(a.ID)), "/admin/company")

	var got site.Company
	require.NoError(t, app.db.First(&got, company.ID).Error)
	assert.Equal(t, "Nagoya Meshi Ltd.", got.Name)

	bad := withField(form, "postal_code", "46000")
	w := app.request(http.MethodPatch, path, bad, admin(a.ID))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decodeBody(t, w)["errors"], "postal_code")

	assert.Equal(t, http.StatusNotFound, app.get("/admin/company/999/edit", admin(a.ID)).Code)
}

func TestAdminTermsUpdate(t *testing.T) {
	app := newTestApp(t)
	a := testutil.CreateAdmin(t, app.db)
	term := testutil.CreateTerm(t, app.db)
	path := fmt.Sprintf("/admin/terms/%d", term.ID)

	requireRedirect(t, app.request(http.MethodPatch, path, url.Values{"content": {"New terms"}}, admin(a.ID)), "/admin/terms")
	w := app.get("/terms", guest)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "New terms", decodeBody(t, w)["term"].(map[string]any)["content"])

	assert.Equal(t, http.StatusUnprocessableEntity, app.request(http.MethodPatch, path, url.Values{"content": {""}}, admin(a.ID)).Code)
}
