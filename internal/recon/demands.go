package recon

import (
	"context"

	"talent-engine/internal/domain"
	"talent-engine/internal/store"
)

func (r *Reconciler) ListDemands(ctx context.Context) ([]domain.Demand, error) {
	v, err := r.Cache.Do(listKey(domain.ResourceDemands), func() (any, bool, error) {
		remoteList, rerr := r.Remote.ListJobOpenings(ctx)
		if rerr == nil {
			return nonNil(remoteList), true, nil
		}
		r.logFallback(domain.ResourceDemands, rerr)

		doc, derr := r.Docs.Load()
		if derr != nil {
			return nil, false, derr
		}
		return nonNil(doc.Demands), true, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Demand), nil
}

func (r *Reconciler) CreateDemand(ctx context.Context, d domain.Demand) (domain.Demand, error) {
	id, err := r.Remote.CreateJobOpening(ctx, d)
	if err == nil {
		d.ID = id
		r.finishMutation(ctx, domain.ResourceDemands, "create", id, store.OriginRemote)
		return d, nil
	}
	if !fallbackEligible(err) {
		return domain.Demand{}, err
	}
	r.logFallback(domain.ResourceDemands, err)

	d.ID = r.localID()
	d.CreatedAt = r.nowRFC3339()
	if uerr := r.Docs.Update(func(doc *domain.Document) error {
		doc.Demands = append(doc.Demands, d)
		return nil
	}); uerr != nil {
		return domain.Demand{}, uerr
	}
	r.finishMutation(ctx, domain.ResourceDemands, "create", d.ID, store.OriginLocal)
	return d, nil
}

func (r *Reconciler) UpdateDemand(ctx context.Context, id string, patch map[string]any) (any, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	if err := r.Remote.UpdateJobOpening(ctx, id, patch); err == nil {
		r.finishMutation(ctx, domain.ResourceDemands, "update", id, store.OriginRemote)
		return mergedPatch(id, patch), nil
	} else if !fallbackEligible(err) {
		return nil, err
	} else {
		r.logFallback(domain.ResourceDemands, err)
	}

	var updated domain.Demand
	if err := r.Docs.Update(func(doc *domain.Document) error {
		for i := range doc.Demands {
			if doc.Demands[i].ID == id {
				if err := domain.ApplyPatch(&doc.Demands[i], patch); err != nil {
					return err
				}
				updated = doc.Demands[i]
				return nil
			}
		}
		// Upsert: the record only ever existed remotely (or nowhere); keep the
		// caller's id so later remote syncs can line it up again.
		d := domain.Demand{ID: id, CreatedAt: r.nowRFC3339()}
		if err := domain.ApplyPatch(&d, patch); err != nil {
			return err
		}
		doc.Demands = append(doc.Demands, d)
		updated = d
		return nil
	}); err != nil {
		return nil, err
	}
	r.finishMutation(ctx, domain.ResourceDemands, "update", id, store.OriginLocal)
	return updated, nil
}

func (r *Reconciler) DeleteDemand(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}

	if err := r.Remote.DeleteJobOpening(ctx, id); err == nil {
		r.finishMutation(ctx, domain.ResourceDemands, "delete", id, store.OriginRemote)
		return nil
	} else if !fallbackEligible(err) {
		return err
	} else {
		r.logFallback(domain.ResourceDemands, err)
	}

	removed := false
	if err := r.Docs.Update(func(doc *domain.Document) error {
		kept := doc.Demands[:0]
		for _, d := range doc.Demands {
			if d.ID == id {
				removed = true
				continue
			}
			kept = append(kept, d)
		}
		doc.Demands = kept
		return nil
	}); err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	r.finishMutation(ctx, domain.ResourceDemands, "delete", id, store.OriginLocal)
	return nil
}
