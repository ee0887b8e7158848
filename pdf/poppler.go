//go:build cgo && !nopoppler

package pdf

/*
#cgo pkg-config: glib-2.0 gio-2.0 cairo poppler-glib
#cgo LDFLAGS: -pthread

#include <cairo/cairo.h>
#include <locale.h>
#include <poppler/glib/poppler.h>
#include <pthread.h>
#include <stdbool.h>
#include <stdlib.h>
#include <string.h>

static pthread_mutex_t cairo_mutex = PTHREAD_MUTEX_INITIALIZER;

// Returns NULL on failure and stores a malloc'd message in *errmsg.
PopplerDocument *open_document(const char *filename, int *num_pages, char **errmsg){
	*errmsg = NULL;

	GFile* file = g_file_new_for_path(filename);
	if(file == NULL){
		*errmsg = strdup("unable to create file handle");
		return NULL;
	}

	GError* error = NULL;
	GBytes* bytes = g_file_load_bytes(file, NULL, NULL, &error);
	g_object_unref(file);

	if (error != NULL) {
		*errmsg = strdup(error->message);
		g_clear_error(&error);
		return NULL;
	}

	PopplerDocument *doc = poppler_document_new_from_bytes(bytes, NULL, &error);
	g_bytes_unref(bytes);
	if (error != NULL) {
		*errmsg = strdup(error->message);
		g_clear_error(&error);
		return NULL;
	}

	*num_pages = poppler_document_get_n_pages(doc);
	return doc;
}

// Renders page into a caller owned ARGB32 buffer of height*stride bytes.
bool render_page_to_buffer(PopplerPage *page, double scale, unsigned char *data,
	int width, int height, int stride) {
	pthread_mutex_lock(&cairo_mutex);

	cairo_surface_t* surface = cairo_image_surface_create_for_data(
		data, CAIRO_FORMAT_ARGB32, width, height, stride);
	if (cairo_surface_status(surface) != CAIRO_STATUS_SUCCESS) {
		cairo_surface_destroy(surface);
		pthread_mutex_unlock(&cairo_mutex);
		return false;
	}

	cairo_t* cr = cairo_create(surface);
	if (cairo_status(cr) != CAIRO_STATUS_SUCCESS) {
		cairo_destroy(cr);
		cairo_surface_destroy(surface);
		pthread_mutex_unlock(&cairo_mutex);
		return false;
	}

	// White page background.
	cairo_set_source_rgb(cr, 1.0, 1.0, 1.0);
	cairo_paint(cr);

	cairo_scale(cr, scale, scale);
	poppler_page_render(page, cr);
	cairo_surface_flush(surface);

	cairo_destroy(cr);
	cairo_surface_destroy(surface);
	pthread_mutex_unlock(&cairo_mutex);
	return true;
}
*/
import "C"
import (
	"fmt"
	"image"
	"unsafe"
)

func init() {
	register(Poppler, openPoppler)
}

// SetLocale sets the C locale from the environment so poppler decodes
// file names and metadata as UTF-8.
func SetLocale() {
	empty := C.CString("")
	defer C.free(unsafe.Pointer(empty))
	C.setlocale(C.LC_ALL, empty)
}

type popplerDocument struct {
	doc      *C.PopplerDocument
	path     string
	numPages int
}

func openPoppler(path string) (Document, error) {
	c_path := C.CString(path)
	defer C.free(unsafe.Pointer(c_path))

	var num_pages C.int
	var c_err *C.char

	doc := C.open_document(c_path, &num_pages, &c_err)
	if doc == nil {
		msg := "unknown error"
		if c_err != nil {
			msg = C.GoString(c_err)
			C.free(unsafe.Pointer(c_err))
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrOpen, path, msg)
	}

	return &popplerDocument{
		doc:      doc,
		path:     path,
		numPages: int(num_pages),
	}, nil
}

func (pdf *popplerDocument) Path() string {
	return pdf.path
}

func (pdf *popplerDocument) NumPages() int {
	return pdf.numPages
}

func (pdf *popplerDocument) Close() error {
	if pdf.doc != nil {
		C.g_object_unref(C.gpointer(pdf.doc))
		pdf.doc = nil
	}
	return nil
}

// page returns a reference to page that must be released with unref.
func (pdf *popplerDocument) page(page int) (*C.PopplerPage, error) {
	if err := checkPage(page, pdf.numPages); err != nil {
		return nil, err
	}

	p := C.poppler_document_get_page(pdf.doc, C.int(page))
	if p == nil {
		return nil, fmt.Errorf("%w: PopplerPage for page %d is NULL", ErrRender, page)
	}
	return p, nil
}

func unref(p *C.PopplerPage) {
	C.g_object_unref(C.gpointer(p))
}

func (pdf *popplerDocument) PageSize(page int) (float64, float64, error) {
	p, err := pdf.page(page)
	if err != nil {
		return 0, 0, err
	}
	defer unref(p)

	var width, height C.double
	C.poppler_page_get_size(p, &width, &height)
	return float64(width), float64(height), nil
}

func (pdf *popplerDocument) RenderPage(page int, scale float64) (image.Image, error) {
	p, err := pdf.page(page)
	if err != nil {
		return nil, err
	}
	defer unref(p)

	var width, height C.double
	C.poppler_page_get_size(p, &width, &height)

	w, h, err := PixelSize(float64(width), float64(height), scale)
	if err != nil {
		return nil, err
	}

	stride := int(C.cairo_format_stride_for_width(C.CAIRO_FORMAT_ARGB32, C.int(w)))
	if stride <= 0 {
		return nil, fmt.Errorf("%w: page %d is too large (%dx%d)", ErrRender, page, w, h)
	}

	buf := make([]byte, stride*h)
	ok := C.render_page_to_buffer(p, C.double(scale),
		(*C.uchar)(unsafe.Pointer(&buf[0])), C.int(w), C.int(h), C.int(stride))
	if !ok {
		return nil, fmt.Errorf("%w: page %d: could not create cairo surface", ErrRender, page)
	}

	return argb32ToRGBA(buf, w, h, stride), nil
}
