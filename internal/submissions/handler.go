package submissions

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tycoonhub/internal/auth"
	"tycoonhub/pkg/models"
)

const maxDescriptionLen = 500

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes expects an auth-protected group: submitting requires a
// logged-in user. Submissions never touch the scraped catalog.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/submissions", h.list)
	rg.POST("/submissions", h.create)
}

type createReq struct {
	Name        string `json:"name"`
	Developer   string `json:"developer"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	s := models.Submission{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Developer:   strings.TrimSpace(req.Developer),
		Type:        strings.TrimSpace(req.Type),
		Status:      strings.TrimSpace(req.Status),
		Link:        strings.TrimSpace(req.Link),
		Image:       strings.TrimSpace(req.Image),
		Description: strings.TrimSpace(req.Description),
		SubmittedBy: claims.UserID,
		SubmittedAt: time.Now().UTC(),
	}

	if err := validate(s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Repo.Create(c.Request.Context(), s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	c.JSON(http.StatusCreated, s)
}

func (h *Handler) list(c *gin.Context) {
	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	items, err := h.Repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

// validate enforces the submission form rules.
func validate(s models.Submission) error {
	if len(s.Name) < 2 {
		return errors.New("game name must be at least 2 characters long")
	}
	if len(s.Developer) < 2 {
		return errors.New("developer name must be at least 2 characters long")
	}
	if s.Type != "free" && s.Type != "paid" {
		return errors.New("type must be free or paid")
	}
	if s.Status != "released" && s.Status != "unreleased" {
		return errors.New("status must be released or unreleased")
	}
	if s.Link != "" && !isValidURL(s.Link) {
		return errors.New("store link must be a valid URL")
	}
	if s.Image != "" && !isValidURL(s.Image) {
		return errors.New("image must be a valid URL")
	}
	if len(s.Description) < 10 {
		return errors.New("description must be at least 10 characters long")
	}
	if len(s.Description) > maxDescriptionLen {
		return errors.New("description too long")
	}
	return nil
}

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
