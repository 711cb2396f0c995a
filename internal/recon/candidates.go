package recon

import (
	"context"

	"talent-engine/internal/domain"
	"talent-engine/internal/store"
)

// ListCandidates is the only read with a real merge: remote records are
// overlaid with the locally-authoritative fields (feedback, recommendations,
// round/interview progress, status), and purely-local records created while
// the remote side was unreachable are appended after them.
func (r *Reconciler) ListCandidates(ctx context.Context) ([]domain.Candidate, error) {
	v, err := r.Cache.Do(listKey(domain.ResourceCandidates), func() (any, bool, error) {
		remoteList, rerr := r.Remote.ListApplications(ctx)
		if rerr != nil {
			r.logFallback(domain.ResourceCandidates, rerr)
			doc, derr := r.Docs.Load()
			if derr != nil {
				return nil, false, derr
			}
			return nonNil(doc.Candidates), true, nil
		}

		doc, derr := r.Docs.Load()
		if derr != nil {
			return nil, false, derr
		}
		return mergeCandidates(remoteList, doc.Candidates), true, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Candidate), nil
}

func mergeCandidates(remoteList, local []domain.Candidate) []domain.Candidate {
	byID := make(map[string]domain.Candidate, len(local))
	for _, lc := range local {
		byID[lc.ID] = lc
	}

	out := make([]domain.Candidate, 0, len(remoteList)+len(local))
	seen := make(map[string]bool, len(remoteList))
	for _, rc := range remoteList {
		if lc, ok := byID[rc.ID]; ok {
			rc.OverlayLocal(lc)
		}
		seen[rc.ID] = true
		out = append(out, rc)
	}

	// Local-only records survive in document order.
	for _, lc := range local {
		if !seen[lc.ID] {
			out = append(out, lc)
		}
	}
	return out
}

func (r *Reconciler) CreateCandidate(ctx context.Context, cand domain.Candidate) (domain.Candidate, error) {
	id, err := r.Remote.InsertApplication(ctx, cand)
	if err == nil {
		cand.ID = id
		r.finishMutation(ctx, domain.ResourceCandidates, "create", id, store.OriginRemote)
		return cand, nil
	}
	if !fallbackEligible(err) {
		return domain.Candidate{}, err
	}
	r.logFallback(domain.ResourceCandidates, err)

	cand.ID = r.localID()
	cand.CreatedAt = r.nowRFC3339()
	if uerr := r.Docs.Update(func(doc *domain.Document) error {
		doc.Candidates = append(doc.Candidates, cand)
		return nil
	}); uerr != nil {
		return domain.Candidate{}, uerr
	}
	r.finishMutation(ctx, domain.ResourceCandidates, "create", cand.ID, store.OriginLocal)
	return cand, nil
}

func (r *Reconciler) UpdateCandidate(ctx context.Context, id string, patch map[string]any) (any, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	if err := r.Remote.UpdateApplication(ctx, id, patch); err == nil {
		r.finishMutation(ctx, domain.ResourceCandidates, "update", id, store.OriginRemote)
		return mergedPatch(id, patch), nil
	} else if !fallbackEligible(err) {
		return nil, err
	} else {
		r.logFallback(domain.ResourceCandidates, err)
	}

	updated, err := r.upsertLocalCandidate(id, patch)
	if err != nil {
		return nil, err
	}
	r.finishMutation(ctx, domain.ResourceCandidates, "update", id, store.OriginLocal)
	return updated, nil
}

// UpdateCandidateDurable is the safety-net variant used by the candidate edit
// flow: the local upsert happens no matter how the remote call went, so
// locally-authoritative fields survive even when the remote write succeeded.
// It only fails when both sides failed.
func (r *Reconciler) UpdateCandidateDurable(ctx context.Context, id string, patch map[string]any) (any, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	remoteErr := r.Remote.UpdateApplication(ctx, id, patch)
	if remoteErr != nil {
		r.logFallback(domain.ResourceCandidates, remoteErr)
	}

	updated, localErr := r.upsertLocalCandidate(id, patch)
	if localErr != nil {
		if remoteErr != nil {
			return nil, localErr
		}
		// Remote took the write; a failed local mirror is a warning, not an error.
		r.finishMutation(ctx, domain.ResourceCandidates, "update", id, store.OriginRemote)
		return mergedPatch(id, patch), nil
	}

	origin := store.OriginLocal
	if remoteErr == nil {
		origin = store.OriginRemote
	}
	r.finishMutation(ctx, domain.ResourceCandidates, "update", id, origin)
	return updated, nil
}

// upsertLocalCandidate merges patch into the existing local record, or
// synthesizes one with the minimal required candidate fields defaulted.
func (r *Reconciler) upsertLocalCandidate(id string, patch map[string]any) (domain.Candidate, error) {
	var updated domain.Candidate
	err := r.Docs.Update(func(doc *domain.Document) error {
		for i := range doc.Candidates {
			if doc.Candidates[i].ID == id {
				if err := domain.ApplyPatch(&doc.Candidates[i], patch); err != nil {
					return err
				}
				doc.Candidates[i].UpdatedAt = r.nowRFC3339()
				updated = doc.Candidates[i]
				return nil
			}
		}

		c := domain.Candidate{ID: id, Status: "applied", AppliedAt: r.nowRFC3339()}
		if err := domain.ApplyPatch(&c, patch); err != nil {
			return err
		}
		if c.Name == "" {
			if fn, ok := patch["fullName"].(string); ok && fn != "" {
				c.Name = fn
			} else {
				c.Name = "Unknown"
			}
		}
		c.UpdatedAt = r.nowRFC3339()
		doc.Candidates = append(doc.Candidates, c)
		updated = c
		return nil
	})
	return updated, err
}

func (r *Reconciler) DeleteCandidate(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}

	if err := r.Remote.DeleteApplication(ctx, id); err == nil {
		r.finishMutation(ctx, domain.ResourceCandidates, "delete", id, store.OriginRemote)
		return nil
	} else if !fallbackEligible(err) {
		return err
	} else {
		r.logFallback(domain.ResourceCandidates, err)
	}

	removed := false
	if err := r.Docs.Update(func(doc *domain.Document) error {
		kept := doc.Candidates[:0]
		for _, c := range doc.Candidates {
			if c.ID == id {
				removed = true
				continue
			}
			kept = append(kept, c)
		}
		doc.Candidates = kept
		return nil
	}); err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	r.finishMutation(ctx, domain.ResourceCandidates, "delete", id, store.OriginLocal)
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
