package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rghosal/cvpilot/internal/export"
	"github.com/rghosal/cvpilot/internal/extract"
	"github.com/rghosal/cvpilot/internal/model"
)

// Setup all of the handlers to their respective endpoints
func (a *App) setupHandlers(r *gin.Engine) {
	r.GET("/", a.formHandler)
	r.POST("/generate", a.generateHandler)
	r.POST("/clear", a.clearHandler)
	r.GET("/download/cv.txt", a.downloadText(func(res adaptedOutputs) string { return res.adaptedCV }, "adapted-cv.txt"))
	r.GET("/download/letter.txt", a.downloadText(func(res adaptedOutputs) string { return res.coverLetter }, "cover-letter.txt"))
	r.GET("/download/cv.pdf", a.downloadPDF(func(res adaptedOutputs) string { return res.adaptedCV }, "Adapted CV", "adapted-cv.pdf"))
	r.GET("/download/letter.pdf", a.downloadPDF(func(res adaptedOutputs) string { return res.coverLetter }, "Cover Letter", "cover-letter.pdf"))
}

// formView is the data rendered into the form template.
type formView struct {
	Title          string
	CV             string
	JobDescription string
	FieldErrors    map[string]string
	Banner         string
	MinChars       int
	MaxChars       int
}

// resultView is the data rendered into the result template.
type resultView struct {
	Title       string
	AdaptedCV   string
	CoverLetter string
}

func (a *App) emptyForm() formView {
	return formView{
		Title:       "cvpilot",
		FieldErrors: map[string]string{},
		MinChars:    a.cfg.Limits.MinChars,
		MaxChars:    a.cfg.Limits.MaxChars,
	}
}

func (a *App) formHandler(ctx *gin.Context) {
	a.render(ctx, http.StatusOK, "form", a.emptyForm())
}

func (a *App) generateHandler(ctx *gin.Context) {
	requestLogger := a.logger.With("txid", uuid.New().String())
	requestLogger.Info("incoming generation request")

	cv := ctx.PostForm("cv")
	jd := ctx.PostForm("job_description")

	view := a.emptyForm()
	view.CV = cv
	view.JobDescription = jd

	// An uploaded PDF résumé replaces the pasted CV text.
	if file, err := ctx.FormFile("cv_pdf"); err == nil && file != nil && file.Size > 0 {
		text, err := readUploadedPDF(file)
		if err != nil {
			requestLogger.Warn("pdf extraction failed", "error", err)
			view.FieldErrors["cv"] = "could not read text from the uploaded PDF"
			a.render(ctx, http.StatusUnprocessableEntity, "form", view)
			return
		}
		cv = text
		view.CV = text
	}

	res, err := a.pipeline.Run(ctx.Request.Context(), model.AdaptationRequest{
		CV:             cv,
		JobDescription: jd,
	})
	if err != nil {
		status, banner, fieldErrs := classify(err)
		view.Banner = banner
		for _, fe := range fieldErrs {
			view.FieldErrors[fe.Field] = fe.Message
		}
		requestLogger.Warn("generation failed", "kind", model.KindOf(err), "error", err)
		a.render(ctx, status, "form", view)
		return
	}

	a.setLatest(res)
	requestLogger.Info("generation succeeded", "run_id", res.ID)
	a.render(ctx, http.StatusOK, "result", resultView{
		Title:       "cvpilot — result",
		AdaptedCV:   res.AdaptedCV,
		CoverLetter: res.CoverLetter,
	})
}

func (a *App) clearHandler(ctx *gin.Context) {
	a.setLatest(nil)
	ctx.Redirect(http.StatusSeeOther, "/")
}

// adaptedOutputs narrows the run result for the download routes.
type adaptedOutputs struct {
	adaptedCV   string
	coverLetter string
}

func (a *App) downloadText(pick func(adaptedOutputs) string, filename string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		res := a.getLatest()
		if res == nil {
			ctx.String(http.StatusGone, "no generation available")
			return
		}
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		ctx.Header("Content-Type", "text/plain; charset=utf-8")
		body := pick(adaptedOutputs{adaptedCV: res.AdaptedCV, coverLetter: res.CoverLetter})
		if err := export.WriteText(ctx.Writer, body); err != nil {
			a.logger.Error("text download failed", "file", filename, "error", err)
		}
	}
}

func (a *App) downloadPDF(pick func(adaptedOutputs) string, title, filename string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		res := a.getLatest()
		if res == nil {
			ctx.String(http.StatusGone, "no generation available")
			return
		}
		body := pick(adaptedOutputs{adaptedCV: res.AdaptedCV, coverLetter: res.CoverLetter})
		out, err := export.PDF(title, body)
		if err != nil {
			a.logger.Error("pdf download failed", "file", filename, "error", err)
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		ctx.Data(http.StatusOK, "application/pdf", out)
	}
}

func readUploadedPDF(file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data := make([]byte, file.Size)
	if _, err := io.ReadFull(f, data); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return extract.TextFromPDF(data)
}

// classify maps a pipeline error to an HTTP status, a user-facing banner
// message and any per-field messages.
func classify(err error) (int, string, model.FieldErrors) {
	var fieldErrs model.FieldErrors
	errors.As(err, &fieldErrs)

	switch model.KindOf(err) {
	case model.KindValidation:
		return http.StatusUnprocessableEntity, "Please fix the highlighted fields.", fieldErrs
	case model.KindBusy:
		return http.StatusConflict, "Another generation is already running. Wait for it to finish and try again.", nil
	case model.KindPlaceholder:
		return http.StatusUnprocessableEntity, "The adapted CV came back with placeholder text. Try submitting again.", nil
	case model.KindWordLimit:
		return http.StatusUnprocessableEntity, "The adapted CV came back too long. Try submitting again.", nil
	case model.KindMissingSection:
		return http.StatusUnprocessableEntity, "The adapted CV was missing a required section. Try submitting again.", nil
	case model.KindSchema:
		return http.StatusBadGateway, "The model returned an unusable response. Try submitting again.", nil
	default:
		return http.StatusBadGateway, fmt.Sprintf("Generation failed: %v", err), nil
	}
}

func (a *App) render(ctx *gin.Context, status int, name string, data any) {
	ctx.Status(status)
	ctx.Header("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.ExecuteTemplate(ctx.Writer, name, data); err != nil {
		a.logger.Error("template render failed", "template", name, "error", err)
	}
}
