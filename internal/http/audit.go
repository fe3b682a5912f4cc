package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookcatalog/internal/audit"
	auditRepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

type AuditController struct {
	auditService *audit.Service
	log          logrus.FieldLogger
}

func NewAuditController(auditService *audit.Service, log logrus.FieldLogger) *AuditController {
	return &AuditController{
		auditService: auditService,
		log:          log,
	}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit?page=&limit=&type=&book_id=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	filter := auditRepo.Filter{EventType: entities.AuditEventType(c.Query("type"))}
	if raw := c.Query("book_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			respondBadRequest(c, "invalid book_id")
			return
		}
		filter.BookID = id
	}

	offset := (page - 1) * limit
	events, total, err := ac.auditService.GetEvents(c.Request.Context(), filter, limit, offset)
	if err != nil {
		respondInternalError(c, ac.log, err, "load audit events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		HasMore:    int64(offset+len(events)) < total,
		TotalPages: totalPages,
	})
}
