package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talent-engine/internal/cache"
	"talent-engine/internal/domain"
	"talent-engine/internal/recon"
	"talent-engine/internal/remote"
	"talent-engine/internal/store/localdoc"
)

// fakeRemote serves candidates from memory and reports every other endpoint
// as absent, the same degraded shape the engine sees against a half-deployed
// tenant.
type fakeRemote struct {
	candidates      []domain.Candidate
	listErr         error
	demandUpdateErr error
}

var errGone = &remote.Error{Status: 404, Message: "not deployed"}

func (f *fakeRemote) ListApplications(ctx context.Context) ([]domain.Candidate, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Candidate, len(f.candidates))
	copy(out, f.candidates)
	return out, nil
}

func (f *fakeRemote) InsertApplication(ctx context.Context, c domain.Candidate) (string, error) {
	return "", errGone
}

func (f *fakeRemote) UpdateApplication(ctx context.Context, id string, patch map[string]any) error {
	for i := range f.candidates {
		if f.candidates[i].ID == id {
			if s, ok := patch["status"].(string); ok {
				f.candidates[i].Status = s
			}
			return nil
		}
	}
	return &remote.Error{Status: 404, Message: "no such application"}
}

func (f *fakeRemote) DeleteApplication(ctx context.Context, id string) error { return errGone }

func (f *fakeRemote) ListJobOpenings(ctx context.Context) ([]domain.Demand, error) {
	return nil, errGone
}
func (f *fakeRemote) CreateJobOpening(ctx context.Context, d domain.Demand) (string, error) {
	return "", errGone
}
func (f *fakeRemote) UpdateJobOpening(ctx context.Context, id string, patch map[string]any) error {
	if f.demandUpdateErr != nil {
		return f.demandUpdateErr
	}
	return errGone
}
func (f *fakeRemote) DeleteJobOpening(ctx context.Context, id string) error { return errGone }

func (f *fakeRemote) ListMeetings(ctx context.Context) ([]domain.Interview, error) {
	return nil, errGone
}
func (f *fakeRemote) ScheduleMeeting(ctx context.Context, iv domain.Interview) (string, error) {
	return "", errGone
}
func (f *fakeRemote) UpdateMeeting(ctx context.Context, id string, patch map[string]any) error {
	return errGone
}
func (f *fakeRemote) DeleteMeeting(ctx context.Context, id string) error { return errGone }

func newTestServer(t *testing.T, api recon.API) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	rec := &recon.Reconciler{
		Remote: api,
		Docs:   localdoc.New(filepath.Join(dir, "db.json")),
		Cache:  cache.New(time.Minute),
	}
	srv := httptest.NewServer(NewMux(Deps{
		Recon:      rec,
		Remote:     api,
		SendMail:   func(to, subject, html string) error { return nil },
		UploadsDir: filepath.Join(dir, "uploads"),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	return res, buf.Bytes()
}

func TestCandidateReadPatchRead(t *testing.T) {
	api := &fakeRemote{candidates: []domain.Candidate{
		{ID: "1", Name: "Asha Rao", Status: "applied"},
		{ID: "2", Name: "Ben Okafor", Status: "screening"},
		{ID: "3", Name: "Carla Diaz", Status: "applied"},
	}}
	srv := newTestServer(t, api)

	res, body := doJSON(t, http.MethodGet, srv.URL+"/api/candidates", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list []domain.Candidate
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 3)

	res, body = doJSON(t, http.MethodPatch, srv.URL+"/api/candidates", map[string]any{
		"id": "2", "status": "selected",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var patched map[string]any
	require.NoError(t, json.Unmarshal(body, &patched))
	assert.Equal(t, "2", patched["id"])
	assert.Equal(t, "selected", patched["status"])

	// the patch invalidated the list cache, so the next read sees the change
	res, body = doJSON(t, http.MethodGet, srv.URL+"/api/candidates", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 3)
	assert.Equal(t, "selected", list[1].Status)
}

func TestUpdateWithoutID(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	res, body := doJSON(t, http.MethodPatch, srv.URL+"/api/demands", map[string]any{
		"status": "closed",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	var e APIError
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "missing_id", e.Error.Code)
}

func TestRemoteServerErrorSurfacesAs500(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{
		demandUpdateErr: &remote.Error{Status: 500, Message: "internal server error"},
	})

	res, body := doJSON(t, http.MethodPatch, srv.URL+"/api/demands", map[string]any{
		"id": "d1", "status": "closed",
	})
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	var e APIError
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "remote_error", e.Error.Code)
	assert.Contains(t, e.Error.Message, "status 500")
}

func TestRemoteRejectionSurfacesAs400(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{
		demandUpdateErr: &remote.Error{Status: 422, Message: "openings must be positive"},
	})

	res, body := doJSON(t, http.MethodPatch, srv.URL+"/api/demands", map[string]any{
		"id": "d1", "openings": -1,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	var e APIError
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "remote_rejected", e.Error.Code)
}

func TestUpdateAcceptsNumericID(t *testing.T) {
	api := &fakeRemote{candidates: []domain.Candidate{{ID: "7", Status: "applied"}}}
	srv := newTestServer(t, api)

	res, _ := doJSON(t, http.MethodPatch, srv.URL+"/api/candidates/update", map[string]any{
		"id": 7, "status": "selected",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "selected", api.candidates[0].Status)
}

func TestDeleteAbsentRecord(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/interviews/ghost", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestDeleteLocalRecord(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	res, body := doJSON(t, http.MethodPost, srv.URL+"/api/demands", map[string]any{
		"title": "Platform Engineer",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var created domain.Demand
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.ID)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/demands/"+created.ID, nil)
	require.NoError(t, err)
	res2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res2.Body.Close()
	require.Equal(t, http.StatusOK, res2.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(res2.Body).Decode(&out))
	assert.Equal(t, true, out["success"])
	assert.Equal(t, created.ID, out["id"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	res, _ := doJSON(t, http.MethodPut, srv.URL+"/api/candidates", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	res, body := doJSON(t, http.MethodPost, srv.URL+"/api/login", map[string]any{
		"email": "lead@example.com", "password": "x", "role": "hr_manager",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var out struct {
		User map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Hr Manager", out.User["name"])
	assert.Equal(t, "hr_manager", out.User["role"])

	res, _ = doJSON(t, http.MethodPost, srv.URL+"/api/login", map[string]any{
		"email": "lead@example.com",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestSendMailValidation(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	res, body := doJSON(t, http.MethodPost, srv.URL+"/api/email/send", map[string]any{
		"to": "a@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	var e APIError
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "missing_fields", e.Error.Code)

	res, body = doJSON(t, http.MethodPost, srv.URL+"/api/email/send", map[string]any{
		"to": "a@example.com", "subject": "Interview", "html": "<p>Hi</p>",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, true, out["success"])
}

func TestIntegrationsApplicantsPassthroughError(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{
		listErr: &remote.Error{Status: 0, Message: "dial tcp: connection refused"},
	})

	res, body := doJSON(t, http.MethodGet, srv.URL+"/api/integrations/applicants", nil)
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	var e APIError
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "remote_error", e.Error.Code)
}

func TestUploadSanitizesFilename(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "../..//evil résumé.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 test"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.True(t, strings.HasPrefix(out.URL, "/uploads/resumes/"), out.URL)
	assert.NotContains(t, out.URL, "..")
	assert.NotContains(t, out.URL, " ")

	// the served path maps onto a real file
	saved, err := http.Get(srv.URL + out.URL)
	require.NoError(t, err)
	defer saved.Body.Close()
	assert.Equal(t, http.StatusOK, saved.StatusCode)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	res, body := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, true, out["ok"])
}

func TestDecodePatchStringAndNumber(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/api/candidates",
		strings.NewReader(`{"id": 12, "status": "selected"}`))
	id, patch, err := decodePatch(req)
	require.NoError(t, err)
	assert.Equal(t, "12", id)
	assert.Equal(t, map[string]any{"status": "selected"}, patch)

	req = httptest.NewRequest(http.MethodPatch, "/api/candidates",
		strings.NewReader(`{"id": "ab", "title": "x"}`))
	id, _, err = decodePatch(req)
	require.NoError(t, err)
	assert.Equal(t, "ab", id)
}

func TestUploadsDirCreatedOnDemand(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	// no upload yet, the resumes dir must not exist and the static mount 404s
	res, err := http.Get(srv.URL + "/uploads/resumes/nothing.pdf")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
