package reservations

import (
	"time"

	"restaurant-app/internal/app/http/validation"
	"restaurant-app/internal/app/http/web"
	"restaurant-app/internal/domain/access"
	"restaurant-app/internal/domain/reservations"
	"restaurant-app/internal/domain/restaurants"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const PathIndex = "/reservations"

type Handler struct {
	DB *gorm.DB
	// Location the submitted date and time are read in.
	Location *time.Location
}

func NewHandler(db *gorm.DB, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{DB: db, Location: loc}
}

type reservationInput struct {
	Date           string `form:"reservation_date" json:"reservation_date" binding:"required,datetime=2006-01-02"`
	Time           string `form:"reservation_time" json:"reservation_time" binding:"required,datetime=15:04"`
	NumberOfPeople int    `form:"number_of_people" json:"number_of_people" binding:"required,min=1,max=50"`
}

func (h *Handler) LoadReservation(c *gin.Context) (any, error) {
	id, ok := web.ParseID(c, "reservation")
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var r reservations.Reservation
	if err := h.DB.WithContext(c.Request.Context()).First(&r, id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func OwnsReservation(p access.Principal, resource any) bool {
	r, ok := resource.(*reservations.Reservation)
	return ok && r.OwnedBy(p.ID)
}

// GET /reservations
func (h *Handler) Index(c *gin.Context) {
	page := web.Paginate(c, web.DefaultPageSize)
	db := h.DB.WithContext(c.Request.Context())
	memberID := web.MemberID(c)

	var total int64
	if err := db.Model(&reservations.Reservation{}).Where("member_id = ?", memberID).Count(&total).Error; err != nil {
		web.ServerError(c, err, "Failed to count reservations")
		return
	}

	list := []reservations.Reservation{}
	err := db.Preload("Restaurant").
		Where("member_id = ?", memberID).
		Order("reserved_datetime DESC").Order("id DESC").
		Limit(page.PerPage).Offset(page.Offset()).
		Find(&list).Error
	if err != nil {
		web.ServerError(c, err, "Failed to load reservations")
		return
	}

	web.Page(c, gin.H{
		"reservations": list,
		"pagination":   page.WithTotal(total),
	})
}

func (h *Handler) restaurant(c *gin.Context) (*restaurants.Restaurant, bool) {
	id, ok := web.ParseID(c, "restaurant")
	if !ok {
		web.NotFound(c)
		return nil, false
	}
	var r restaurants.Restaurant
	if err := h.DB.WithContext(c.Request.Context()).First(&r, id).Error; err != nil {
		web.DBError(c, err, "Failed to load restaurant")
		return nil, false
	}
	return &r, true
}

// GET /restaurants/:restaurant/reservations/create
func (h *Handler) Create(c *gin.Context) {
	r, ok := h.restaurant(c)
	if !ok {
		return
	}
	web.Page(c, gin.H{"restaurant": r})
}

// POST /restaurants/:restaurant/reservations
func (h *Handler) Store(c *gin.Context) {
	r, ok := h.restaurant(c)
	if !ok {
		return
	}

	var input reservationInput
	if !validation.Bind(c, &input) {
		return
	}

	at, err := reservations.ParseSlot(input.Date, input.Time, h.Location)
	if err != nil {
		validation.Fail(c, validation.Errors{"reservation_date": "reservation_date is not a valid date"}, input)
		return
	}

	res := reservations.Reservation{
		ReservedDatetime: at,
		NumberOfPeople:   input.NumberOfPeople,
		RestaurantID:     r.ID,
		MemberID:         web.MemberID(c),
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&res).Error; err != nil {
		web.ServerError(c, err, "Failed to save reservation")
		return
	}
	web.Redirect(c, PathIndex, web.FlashSuccess, "Your reservation has been made.")
}

// DELETE /reservations/:reservation
func (h *Handler) Destroy(c *gin.Context) {
	res, _ := web.Resource[*reservations.Reservation](c)

	if err := h.DB.WithContext(c.Request.Context()).Delete(&reservations.Reservation{}, res.ID).Error; err != nil {
		web.ServerError(c, err, "Failed to cancel reservation")
		return
	}
	web.Redirect(c, PathIndex, web.FlashSuccess, "Your reservation has been canceled.")
}
