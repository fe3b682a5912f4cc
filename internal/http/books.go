package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/metrics"
)

// BooksController serves the JSON API over the catalog.
type BooksController struct {
	catalog *catalog.Service
	metrics *metrics.Collector
	log     logrus.FieldLogger
}

func NewBooksController(svc *catalog.Service, m *metrics.Collector, log logrus.FieldLogger) *BooksController {
	return &BooksController{
		catalog: svc,
		metrics: m,
		log:     log,
	}
}

// ListBooks returns the filtered catalog.
// GET /api/books?q=&category=&language=&owner=&status=
func (controller *BooksController) ListBooks(c *gin.Context) {
	var filter catalog.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBadRequest(c, "invalid filter")
		return
	}

	view, err := controller.catalog.Browse(c.Request.Context(), filter)
	if err != nil {
		respondCatalogError(c, controller.log, err, "list books")
		return
	}
	if controller.metrics != nil {
		controller.metrics.ObserveCatalogLoad("api_books", view.Total)
	}

	c.IndentedJSON(http.StatusOK, gin.H{"books": view.Rows, "count": len(view.Rows), "total": view.Total})
}

// GetBook returns one catalog row.
// GET /api/books/:id
func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	row, err := controller.catalog.GetBook(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, controller.log, err, "get book")
		return
	}
	c.IndentedJSON(http.StatusOK, row)
}

// CreateBook adds a book from display labels.
// POST /api/books
func (controller *BooksController) CreateBook(c *gin.Context) {
	var input catalog.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := controller.catalog.CreateBook(c.Request.Context(), input)
	if err != nil {
		respondCatalogError(c, controller.log, err, "create book")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UpdateBook overwrites title, summary and author of a book.
// PUT /api/books/:id
func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input catalog.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := controller.catalog.UpdateBook(c.Request.Context(), id, input)
	if err != nil {
		respondCatalogError(c, controller.log, err, "update book")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetLookup lists one lookup table as id/label pairs.
// GET /api/lookups/:kind
func (controller *BooksController) GetLookup(c *gin.Context) {
	kind, ok := catalog.ParseLookupKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "unknown lookup " + c.Param("kind"),
			Code:    "not_found",
			Details: gin.H{"kinds": catalog.LookupKinds},
		})
		return
	}

	options, err := controller.catalog.ListLookup(c.Request.Context(), kind)
	if err != nil {
		respondCatalogError(c, controller.log, err, "list lookup")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"kind": kind, "options": options})
}

// GetFilters returns the values offered by each categorical filter.
// GET /api/filters
func (controller *BooksController) GetFilters(c *gin.Context) {
	options, err := controller.catalog.FilterOptions(c.Request.Context())
	if err != nil {
		respondCatalogError(c, controller.log, err, "filter options")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{
		"all":     catalog.ShowAllLabel,
		"options": options,
	})
}
