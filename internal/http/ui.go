package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/metrics"
	"github.com/mrlokans/bookcatalog/internal/readonly"
	"github.com/mrlokans/bookcatalog/internal/session"
)

// UIController renders the catalog page and the add and edit forms.
type UIController struct {
	catalog  *catalog.Service
	sessions *session.Manager
	metrics  *metrics.Collector
	log      logrus.FieldLogger
	title    string
}

func NewUIController(svc *catalog.Service, sessions *session.Manager, m *metrics.Collector, log logrus.FieldLogger, title string) *UIController {
	return &UIController{
		catalog:  svc,
		sessions: sessions,
		metrics:  m,
		log:      log,
		title:    title,
	}
}

// CatalogPage lists the books that pass the search and filter controls.
// GET /
func (controller *UIController) CatalogPage(c *gin.Context) {
	var filter catalog.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.String(http.StatusBadRequest, "Invalid filter")
		return
	}

	view, err := controller.catalog.Browse(c.Request.Context(), filter)
	if err != nil {
		controller.renderError(c, err, "Could not load the catalog")
		return
	}
	if controller.metrics != nil {
		controller.metrics.ObserveCatalogLoad("catalog", view.Total)
	}

	cards := catalog.NewCards(view.Rows)
	c.HTML(http.StatusOK, "catalog", controller.page(c, gin.H{
		"Filter":   filter,
		"Options":  view.Options,
		"AllLabel": catalog.ShowAllLabel,
		"Cards":    cards,
		"Count":    len(cards),
		"Total":    view.Total,
	}))
}

// NewBookPage renders an empty add form.
// GET /books/new
func (controller *UIController) NewBookPage(c *gin.Context) {
	controller.renderNewBook(c, http.StatusOK, catalog.CreateInput{}, "")
}

// CreateBook handles the add form. Rejected submissions re-render the form
// with the entered values kept.
// POST /books
func (controller *UIController) CreateBook(c *gin.Context) {
	var input catalog.CreateInput
	if err := c.ShouldBind(&input); err != nil {
		c.String(http.StatusBadRequest, "Invalid form submission")
		return
	}

	result, err := controller.catalog.CreateBook(c.Request.Context(), input)
	if err != nil {
		controller.renderNewBook(c, statusFor(err), input, controller.formMessage(err, "create book"))
		return
	}

	controller.flash(c, session.FlashSuccess, "Book added: "+input.Title)
	controller.redirectAfter(c, result)
}

// EditBookPage renders the title selector and, once a book is chosen, the
// edit form pre-filled from that book.
// GET /books/edit?id=
func (controller *UIController) EditBookPage(c *gin.Context) {
	raw := c.Query("id")
	if raw == "" {
		controller.renderEdit(c, http.StatusOK, 0, nil, catalog.UpdateInput{}, "")
		return
	}

	id, err := parseID(raw)
	if err != nil {
		controller.renderEdit(c, http.StatusBadRequest, 0, nil, catalog.UpdateInput{}, "Invalid book id")
		return
	}

	form, err := controller.catalog.EditForm(c.Request.Context(), id)
	if err != nil {
		controller.renderEditFailure(c, id, err)
		return
	}

	values := catalog.UpdateInput{
		Title:   form.Book.Title,
		Summary: form.Book.Summary,
		Author:  form.AuthorLabel,
	}
	controller.renderEdit(c, http.StatusOK, id, form, values, "")
}

// UpdateBook handles the edit form.
// POST /books/:id
func (controller *UIController) UpdateBook(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid book ID")
		return
	}

	var input catalog.UpdateInput
	if err := c.ShouldBind(&input); err != nil {
		c.String(http.StatusBadRequest, "Invalid form submission")
		return
	}

	result, err := controller.catalog.UpdateBook(c.Request.Context(), id, input)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			controller.renderEditFailure(c, id, err)
			return
		}
		form, formErr := controller.catalog.EditForm(c.Request.Context(), id)
		if formErr != nil {
			controller.renderEditFailure(c, id, formErr)
			return
		}
		controller.renderEdit(c, statusFor(err), id, form, input, controller.formMessage(err, "update book"))
		return
	}

	controller.flash(c, session.FlashSuccess, "Book updated: "+input.Title)
	controller.redirectAfter(c, result)
}

func (controller *UIController) renderNewBook(c *gin.Context, status int, input catalog.CreateInput, message string) {
	choices, err := controller.catalog.LoadChoices(c.Request.Context())
	if err != nil {
		controller.renderError(c, err, "Could not load the form")
		return
	}
	c.HTML(status, "book_new", controller.page(c, gin.H{
		"Form":    input,
		"Choices": choices,
		"Error":   message,
	}))
}

func (controller *UIController) renderEdit(c *gin.Context, status int, id uint, form *catalog.EditForm, values catalog.UpdateInput, message string) {
	titles, err := controller.catalog.Titles(c.Request.Context())
	if err != nil {
		controller.renderError(c, err, "Could not load the catalog")
		return
	}
	c.HTML(status, "book_edit", controller.page(c, gin.H{
		"Titles":     titles,
		"SelectedID": id,
		"Form":       form,
		"Values":     values,
		"Error":      message,
	}))
}

func (controller *UIController) renderEditFailure(c *gin.Context, id uint, err error) {
	if errors.Is(err, catalog.ErrBookNotFound) {
		controller.renderEdit(c, http.StatusNotFound, id, nil, catalog.UpdateInput{}, "Book not found")
		return
	}
	controller.renderError(c, err, "Could not load the book")
}

func (controller *UIController) renderError(c *gin.Context, err error, message string) {
	controller.log.WithError(err).WithField("path", c.Request.URL.Path).Error(message)
	c.HTML(http.StatusInternalServerError, "error", controller.page(c, gin.H{
		"Error": message,
	}))
}

// formMessage turns a rejected submission into the text shown above the form.
func (controller *UIController) formMessage(err error, context string) string {
	if statusFor(err) == http.StatusInternalServerError {
		controller.log.WithError(err).WithField("context", context).Error("Write failed")
		return "The book could not be saved. Nothing was changed, please try again."
	}
	return err.Error()
}

func (controller *UIController) flash(c *gin.Context, kind, message string) {
	if controller.sessions != nil {
		controller.sessions.PutFlash(c.Request.Context(), kind, message)
	}
}

// redirectAfter follows a successful write with a GET so a reload never
// resubmits the form.
func (controller *UIController) redirectAfter(c *gin.Context, result catalog.MutationResult) {
	target := c.Request.URL.Path
	if result.Has(catalog.CommandReloadCatalog) {
		target = "/"
	}
	c.Redirect(http.StatusSeeOther, target)
}

// page adds the values every template reads to data.
func (controller *UIController) page(c *gin.Context, data gin.H) gin.H {
	data["AppTitle"] = controller.title
	data["ReadOnly"] = readonly.Enabled(c)
	data["CSRFField"] = session.CSRFField(c)
	if controller.sessions != nil {
		if flash, ok := controller.sessions.PopFlash(c.Request.Context()); ok {
			data["Flash"] = flash
		}
	}
	return data
}
