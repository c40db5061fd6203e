package server

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"todobooks/internal/domain/errors"
	"todobooks/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestID propagates the caller's X-Request-Id or mints a new one.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rid := ctx.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx.Set(logger.RequestIDKey, rid)
		ctx.Writer.Header().Set(requestIDHeader, rid)
		ctx.Next()
	}
}

type gzipBody struct {
	io.Reader
	gz   io.Closer
	body io.Closer
}

func (b *gzipBody) Close() error {
	err := b.gz.Close()
	if cerr := b.body.Close(); err == nil {
		err = cerr
	}
	return err
}

// GzipRequestDecompress transparently inflates gzip-encoded request bodies.
func GzipRequestDecompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !strings.Contains(strings.ToLower(ctx.GetHeader("Content-Encoding")), "gzip") {
			ctx.Next()
			return
		}
		gr, err := gzip.NewReader(ctx.Request.Body)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errors.ErrInvalidGzipRequest.Error()})
			return
		}
		ctx.Request.Body = &gzipBody{Reader: gr, gz: gr, body: ctx.Request.Body}
		ctx.Request.Header.Del("Content-Encoding")
		ctx.Request.Header.Del("Content-Length")
		ctx.Request.ContentLength = -1
		ctx.Next()
	}
}

// gzipWriter decides on the first body write whether to compress, once the
// handler has set status and content type.
type gzipWriter struct {
	gin.ResponseWriter
	gz      *gzip.Writer
	decided bool
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	if !w.decided {
		w.decide()
	}
	if w.gz == nil {
		return w.ResponseWriter.Write(data)
	}
	n, err := w.gz.Write(data)
	if err != nil {
		return n, errors.ErrGzipCompressionFailed
	}
	return n, nil
}

func (w *gzipWriter) WriteString(s string) (int, error) { return w.Write([]byte(s)) }

func (w *gzipWriter) decide() {
	w.decided = true
	h := w.Header()
	switch w.Status() {
	case http.StatusNoContent, http.StatusNotModified, http.StatusPartialContent:
		return
	}
	if h.Get("Content-Encoding") != "" || !isCompressibleContentType(h.Get("Content-Type")) {
		return
	}
	h.Del("Content-Length")
	h.Set("Content-Encoding", "gzip")
	w.gz = gzip.NewWriter(w.ResponseWriter)
}

func (w *gzipWriter) Flush() {
	if w.gz != nil {
		_ = w.gz.Flush()
	}
	w.ResponseWriter.Flush()
}

// GzipResponseCompress compresses JSON and text responses for clients that
// accept gzip.
func GzipResponseCompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodHead ||
			!strings.Contains(strings.ToLower(ctx.GetHeader("Accept-Encoding")), "gzip") {
			ctx.Next()
			return
		}
		vary := ctx.Writer.Header().Get("Vary")
		if vary == "" {
			ctx.Writer.Header().Set("Vary", "Accept-Encoding")
		} else if !strings.Contains(vary, "Accept-Encoding") {
			ctx.Writer.Header().Set("Vary", vary+", Accept-Encoding")
		}

		gw := &gzipWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = gw
		ctx.Next()

		if gw.gz != nil {
			if err := gw.gz.Close(); err != nil {
				_ = ctx.Error(errors.ErrGzipCompressionFailed)
			}
		}
	}
}

func isCompressibleContentType(ct string) bool {
	lower := strings.ToLower(ct)
	if lower == "" || strings.HasPrefix(lower, "text/event-stream") {
		return false
	}
	for _, prefix := range []string{"application/json", "text/plain", "text/html"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
