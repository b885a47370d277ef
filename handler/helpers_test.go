package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/malazinvestment/backend/config"
	"github.com/malazinvestment/backend/middleware"
	"github.com/malazinvestment/backend/service"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testUser     = "admin"
	testPassword = "s3cret"
)

type testServer struct {
	router    *gin.Engine
	companies *countingCompanyStore
	users     *service.MemoryUserStore
	files     *service.LocalFileStore
	uploadDir string
}

// countingCompanyStore records writes so tests can assert the store was
// never touched.
type countingCompanyStore struct {
	*service.MemoryCompanyStore
	updates int
}

func (s *countingCompanyStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	s.updates++
	return s.MemoryCompanyStore.Update(ctx, id, fields)
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Auth: config.AuthConfig{Username: testUser, Password: testPassword},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	dir := t.TempDir()
	files := service.NewLocalFileStore(dir)
	ts := &testServer{
		companies: &countingCompanyStore{MemoryCompanyStore: service.NewMemoryCompanyStore()},
		users:     service.NewMemoryUserStore(),
		files:     files,
		uploadDir: dir,
	}
	ts.router = NewRouter(Deps{
		Config:    cfg,
		Companies: ts.companies,
		Users:     ts.users,
		Files:     files,
		Uploads:   service.NewUploadService(files, "", []string{"image/jpeg", "image/png", "application/pdf"}),
		Metrics:   middleware.NewMetrics(),
	})
	return ts
}

// do sends req with operator credentials
func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	req.SetBasicAuth(testUser, testPassword)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// jsonRequest builds a request with a raw JSON body
func jsonRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (ts *testServer) doJSON(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.do(req)
}

type upload struct {
	field       string
	filename    string
	contentType string
	content     string
}

// multipartRequest builds a multipart form with ordered fields and files
func multipartRequest(t *testing.T, method, target string, fields url.Values, uploads ...upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(key, v))
		}
	}
	for _, u := range uploads {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+u.field+`"; filename="`+u.filename+`"`)
		h.Set("Content-Type", u.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = io.WriteString(part, u.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	d, _ := decode[map[string]any](t, w)["detail"].(string)
	return d
}
