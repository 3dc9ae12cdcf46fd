package api

import (
	"context"                      // Context for Redis operations
	"errors"                       // Error inspection
	"net/http"                     // HTTP status codes
	"saas_backend/internal/domain" // Importing domain models
	"saas_backend/internal/utils"  // Utility functions
	"strconv"                      // String conversion
	"time"                         // Date parsing

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/datatypes"            // Date-only column type
	"gorm.io/gorm"                 // GORM ORM library
)

// dateLayout is the wire format of blog dates
const dateLayout = "2006-01-02"

// ErrorResponse is the {error} body used by the blog and payment routes
type ErrorResponse struct {
	Error string `json:"error"` // Human readable error
}

// BlogRequest is the body of POST /blogs
type BlogRequest struct {
	Title  string  `json:"title" binding:"required"`  // Title must be provided
	Author string  `json:"author" binding:"required"` // Author must be provided
	Text   string  `json:"text" binding:"required"`   // Body must be provided
	Date   string  `json:"date"`                      // YYYY-MM-DD, defaults to today
	Image  *string `json:"image"`                     // Optional image reference
}

// BlogUpdateRequest is the body of PUT /blogs/:id, absent fields are left alone
type BlogUpdateRequest struct {
	Title  *string `json:"title"`  // New title
	Author *string `json:"author"` // New author
	Text   *string `json:"text"`   // New body
	Date   *string `json:"date"`   // New date, YYYY-MM-DD
	Image  *string `json:"image"`  // New image reference
}

// BlogResponse is the wire form of a blog
type BlogResponse struct {
	ID        uint      `json:"id"`        // Blog ID
	Title     string    `json:"title"`     // Title
	Author    string    `json:"author"`    // Author
	Date      string    `json:"date"`      // Publication date, YYYY-MM-DD
	Text      string    `json:"text"`      // Body text
	Image     *string   `json:"image"`     // Image reference
	CreatedAt time.Time `json:"createdAt"` // Creation timestamp
	UpdatedAt time.Time `json:"updatedAt"` // Update timestamp
}

func newBlogResponse(b *domain.Blog) BlogResponse {
	return BlogResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Date:      time.Time(b.Date).Format(dateLayout),
		Text:      b.Text,
		Image:     b.Image,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// parseDate reads a YYYY-MM-DD date
func parseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}

// today returns the current day as a date column value
func today() datatypes.Date {
	y, m, d := time.Now().UTC().Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// invalidateBlogs drops the cached listing after a mutation
func invalidateBlogs(ctx context.Context, rdb *redis.Client) {
	if err := utils.DeleteCache(ctx, rdb, utils.BlogListKey); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate blog cache")
	}
}

// findBlog loads the blog addressed by :id, answering 404 when absent
func findBlog(c *gin.Context, db *gorm.DB) (*domain.Blog, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64) // Parse blog id from path
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Blog not found"})
		return nil, false
	}
	var blog domain.Blog // Fetch blog from database
	if err := db.WithContext(c.Request.Context()).First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Blog not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return nil, false
	}
	return &blog, true
}

// ListBlogsHandler lists every blog, newest first, through the Redis cache
func ListBlogsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context() // Request scoped context
		var resp []BlogResponse    // Response payload
		// Try cache first
		if found, err := utils.GetCache(ctx, rdb, utils.BlogListKey, &resp); err == nil && found {
			c.JSON(http.StatusOK, resp)
			return
		}
		var blogs []domain.Blog // Fetch blogs from database
		if err := db.WithContext(ctx).Order("date desc, id desc").Find(&blogs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		resp = make([]BlogResponse, 0, len(blogs)) // Never null in JSON
		for i := range blogs {
			resp = append(resp, newBlogResponse(&blogs[i]))
		}
		if err := utils.SetCache(ctx, rdb, utils.BlogListKey, resp, utils.BlogListTTL); err != nil {
			logrus.WithError(err).Warn("Failed to cache blog list")
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetBlogHandler returns one blog
func GetBlogHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		blog, ok := findBlog(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, newBlogResponse(blog))
	}
}

// CreateBlogHandler stores a new blog
func CreateBlogHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BlogRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Title, author and text are required"})
			return
		}
		blog := domain.Blog{
			Title:  req.Title,
			Author: req.Author,
			Text:   req.Text,
			Date:   today(),
			Image:  req.Image,
		}
		if req.Date != "" {
			d, err := parseDate(req.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
				return
			}
			blog.Date = d
		}
		if err := db.WithContext(c.Request.Context()).Create(&blog).Error; err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		invalidateBlogs(c.Request.Context(), rdb)
		logrus.WithField("blog_id", blog.ID).Info("Blog created")
		c.JSON(http.StatusCreated, newBlogResponse(&blog))
	}
}

// UpdateBlogHandler applies a partial update to a blog
func UpdateBlogHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BlogUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
			return
		}
		blog, ok := findBlog(c, db)
		if !ok {
			return
		}
		updates := map[string]any{} // Only the fields present in the body
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Author != nil {
			updates["author"] = *req.Author
		}
		if req.Text != nil {
			updates["text"] = *req.Text
		}
		if req.Image != nil {
			updates["image"] = *req.Image
		}
		if req.Date != nil {
			d, err := parseDate(*req.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
				return
			}
			updates["date"] = d
		}
		if len(updates) > 0 {
			if err := db.WithContext(c.Request.Context()).Model(blog).Updates(updates).Error; err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
				return
			}
			invalidateBlogs(c.Request.Context(), rdb)
		}
		// Reload so the response carries what was stored
		if err := db.WithContext(c.Request.Context()).First(blog, blog.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, newBlogResponse(blog))
	}
}

// DeleteBlogHandler removes a blog
func DeleteBlogHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		blog, ok := findBlog(c, db)
		if !ok {
			return
		}
		if err := db.WithContext(c.Request.Context()).Delete(blog).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		invalidateBlogs(c.Request.Context(), rdb)
		logrus.WithField("blog_id", blog.ID).Info("Blog deleted")
		c.Status(http.StatusNoContent)
	}
}
