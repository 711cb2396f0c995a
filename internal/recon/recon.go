// Package recon unifies the two data sources behind the API: the remote HR
// service (authoritative when reachable) and the local JSON document
// (offline/override store). Reads degrade, writes reconcile:
//
//	read:  cache -> remote (merged with local for candidates) -> local
//	write: remote first; endpoint-absent or unreachable -> local fallback;
//	       any other remote failure propagates (masking it risks data loss)
package recon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"talent-engine/internal/cache"
	"talent-engine/internal/domain"
	"talent-engine/internal/events"
	"talent-engine/internal/remote"
	"talent-engine/internal/store"
	"talent-engine/internal/store/localdoc"
)

var (
	// ErrNotFound: the record exists neither remotely nor in the local
	// document. There is nowhere else to look.
	ErrNotFound = errors.New("record not found")
	// ErrMissingID: update/delete called without an id. Checked before any I/O.
	ErrMissingID = errors.New("id is required")
)

// API is the slice of the remote client the reconciler consumes. Tests plug
// in fakes here.
type API interface {
	ListApplications(ctx context.Context) ([]domain.Candidate, error)
	InsertApplication(ctx context.Context, c domain.Candidate) (string, error)
	UpdateApplication(ctx context.Context, id string, patch map[string]any) error
	DeleteApplication(ctx context.Context, id string) error

	ListJobOpenings(ctx context.Context) ([]domain.Demand, error)
	CreateJobOpening(ctx context.Context, d domain.Demand) (string, error)
	UpdateJobOpening(ctx context.Context, id string, patch map[string]any) error
	DeleteJobOpening(ctx context.Context, id string) error

	ListMeetings(ctx context.Context) ([]domain.Interview, error)
	ScheduleMeeting(ctx context.Context, iv domain.Interview) (string, error)
	UpdateMeeting(ctx context.Context, id string, patch map[string]any) error
	DeleteMeeting(ctx context.Context, id string) error
}

type Reconciler struct {
	Remote API
	Docs   *localdoc.Store
	Cache  *cache.Cache

	// Optional wiring.
	Audit     *sql.DB                          // mutation audit trail
	Hub       *events.Hub                      // SSE fan-out
	RequestID func(ctx context.Context) string // for audit/event correlation
	Now       func() time.Time                 // injectable clock
}

func (r *Reconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Reconciler) reqID(ctx context.Context) string {
	if r.RequestID != nil {
		return r.RequestID(ctx)
	}
	return ""
}

// localID generates an id for records created while the remote endpoint is
// absent. Millisecond-clock string, best-effort unique; remote upserts key on
// these ids later, so the format must stay stable.
func (r *Reconciler) localID() string {
	return fmt.Sprintf("%d", r.now().UnixMilli())
}

func (r *Reconciler) nowRFC3339() string {
	return r.now().UTC().Format(time.RFC3339)
}

func listKey(resource string) string { return resource + "_list" }

// fallbackEligible: a write may move to the local document only when the
// remote endpoint is absent (404) or the service is unreachable. A 4xx/5xx
// response means the endpoint exists and rejected the write, so propagate.
func fallbackEligible(err error) bool {
	return remote.IsNotFound(err) || remote.IsUnavailable(err)
}

var eventOp = map[string]string{"create": "created", "update": "updated", "delete": "deleted"}

// finishMutation runs the bookkeeping every successful write shares:
// cache invalidation (so the next read cannot be stale), the audit row, and
// the SSE event. Audit/event failures are logged, never surfaced.
func (r *Reconciler) finishMutation(ctx context.Context, resource, op, recordID, origin string) {
	r.Cache.Invalidate(listKey(resource))

	if r.Audit != nil {
		err := store.AppendAudit(ctx, r.Audit, store.AuditEntry{
			RequestID: r.reqID(ctx),
			Resource:  resource,
			Op:        op,
			RecordID:  recordID,
			Origin:    origin,
		})
		if err != nil {
			log.Printf("[recon] audit append failed resource=%s op=%s id=%s err=%v", resource, op, recordID, err)
		}
	}

	if r.Hub != nil {
		// candidates -> candidate_created etc.
		typ := resource[:len(resource)-1] + "_" + eventOp[op]
		r.Hub.Publish(events.MakeEvent(r.reqID(ctx), typ, 1, map[string]any{
			"id":     recordID,
			"origin": origin,
		}))
	}
}

func (r *Reconciler) logFallback(resource string, err error) {
	// 404s are routine (endpoint not deployed for this tenant); anything else
	// is worth a warning.
	if remote.IsNotFound(err) {
		return
	}
	log.Printf("level=warn msg=\"remote failed, using local document\" resource=%s status=%d err=%q",
		resource, remote.StatusOf(err), err.Error())
}

// mergedPatch is the update result when the remote side took the write: the
// id plus the fields that changed, the same shape the caller sent.
func mergedPatch(id string, patch map[string]any) map[string]any {
	out := make(map[string]any, len(patch)+1)
	for k, v := range patch {
		out[k] = v
	}
	out["id"] = id
	return out
}
