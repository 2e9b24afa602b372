package service

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/codeharbor/portfolio/internal/content/domain"
)

const pictureField = "Picture"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// formBody accumulates a multipart/form-data request body.
type formBody struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newFormBody() *formBody {
	f := &formBody{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *formBody) field(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.w.WriteField(name, value)
}

// optionalField skips empty values so the backend sees the field as absent.
func (f *formBody) optionalField(name, value string) {
	if value == "" {
		return
	}
	f.field(name, value)
}

// file writes the attachment; a nil file leaves the field out entirely.
func (f *formBody) file(name string, file *domain.File) {
	if f.err != nil || file == nil || file.Content == nil {
		return
	}

	filename := file.Name
	if filename == "" {
		filename = strings.ToLower(name)
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(name), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)

	part, err := f.w.CreatePart(h)
	if err != nil {
		f.err = err
		return
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		f.err = fmt.Errorf("read %s: %w", name, err)
	}
}

// finish closes the writer and returns the body with its Content-Type.
func (f *formBody) finish() (io.Reader, string, error) {
	if f.err != nil {
		return nil, "", fmt.Errorf("encode form: %w", f.err)
	}
	if err := f.w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode form: %w", err)
	}
	return &f.buf, f.w.FormDataContentType(), nil
}

func encodeArticle(p domain.ArticlePayload) (io.Reader, string, error) {
	f := newFormBody()
	f.field("Title", p.Title)
	f.field("Description", p.Description)
	f.field("Hyperlink", p.Hyperlink)
	f.field("AltText", p.AltText)
	f.file(pictureField, p.Picture)
	return f.finish()
}

func encodeProjectItem(p domain.ProjectItemPayload) (io.Reader, string, error) {
	f := newFormBody()
	f.field("Name", p.Name)
	f.field("Description", p.Description)
	f.optionalField("DemoLink", p.DemoLink)
	f.field("Price", formatPrice(p.Price))
	f.file(pictureField, p.Picture)
	return f.finish()
}

// formatPrice renders the shortest decimal form, e.g. 100 -> "100", 9.5 -> "9.5".
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
