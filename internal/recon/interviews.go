package recon

import (
	"context"

	"talent-engine/internal/domain"
	"talent-engine/internal/store"
)

func (r *Reconciler) ListInterviews(ctx context.Context) ([]domain.Interview, error) {
	v, err := r.Cache.Do(listKey(domain.ResourceInterviews), func() (any, bool, error) {
		remoteList, rerr := r.Remote.ListMeetings(ctx)
		if rerr == nil {
			return nonNil(remoteList), true, nil
		}
		r.logFallback(domain.ResourceInterviews, rerr)

		doc, derr := r.Docs.Load()
		if derr != nil {
			return nil, false, derr
		}
		return nonNil(doc.Interviews), true, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Interview), nil
}

func (r *Reconciler) CreateInterview(ctx context.Context, iv domain.Interview) (domain.Interview, error) {
	id, err := r.Remote.ScheduleMeeting(ctx, iv)
	if err == nil {
		iv.ID = id
		r.finishMutation(ctx, domain.ResourceInterviews, "create", id, store.OriginRemote)
		return iv, nil
	}
	if !fallbackEligible(err) {
		return domain.Interview{}, err
	}
	r.logFallback(domain.ResourceInterviews, err)

	iv.ID = r.localID()
	iv.CreatedAt = r.nowRFC3339()
	if uerr := r.Docs.Update(func(doc *domain.Document) error {
		doc.Interviews = append(doc.Interviews, iv)
		return nil
	}); uerr != nil {
		return domain.Interview{}, uerr
	}
	r.finishMutation(ctx, domain.ResourceInterviews, "create", iv.ID, store.OriginLocal)
	return iv, nil
}

func (r *Reconciler) UpdateInterview(ctx context.Context, id string, patch map[string]any) (any, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	if err := r.Remote.UpdateMeeting(ctx, id, patch); err == nil {
		r.finishMutation(ctx, domain.ResourceInterviews, "update", id, store.OriginRemote)
		return mergedPatch(id, patch), nil
	} else if !fallbackEligible(err) {
		return nil, err
	} else {
		r.logFallback(domain.ResourceInterviews, err)
	}

	var updated domain.Interview
	if err := r.Docs.Update(func(doc *domain.Document) error {
		for i := range doc.Interviews {
			if doc.Interviews[i].ID == id {
				if err := domain.ApplyPatch(&doc.Interviews[i], patch); err != nil {
					return err
				}
				updated = doc.Interviews[i]
				return nil
			}
		}
		iv := domain.Interview{ID: id, CreatedAt: r.nowRFC3339()}
		if err := domain.ApplyPatch(&iv, patch); err != nil {
			return err
		}
		doc.Interviews = append(doc.Interviews, iv)
		updated = iv
		return nil
	}); err != nil {
		return nil, err
	}
	r.finishMutation(ctx, domain.ResourceInterviews, "update", id, store.OriginLocal)
	return updated, nil
}

func (r *Reconciler) DeleteInterview(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}

	if err := r.Remote.DeleteMeeting(ctx, id); err == nil {
		r.finishMutation(ctx, domain.ResourceInterviews, "delete", id, store.OriginRemote)
		return nil
	} else if !fallbackEligible(err) {
		return err
	} else {
		r.logFallback(domain.ResourceInterviews, err)
	}

	removed := false
	if err := r.Docs.Update(func(doc *domain.Document) error {
		kept := doc.Interviews[:0]
		for _, iv := range doc.Interviews {
			if iv.ID == id {
				removed = true
				continue
			}
			kept = append(kept, iv)
		}
		doc.Interviews = kept
		return nil
	}); err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	r.finishMutation(ctx, domain.ResourceInterviews, "delete", id, store.OriginLocal)
	return nil
}
