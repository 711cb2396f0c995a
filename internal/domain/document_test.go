package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPatchShallowMerge(t *testing.T) {
	d := Demand{ID: "d1", Title: "Backend Engineer", Status: "open", Openings: 3}

	err := ApplyPatch(&d, map[string]any{"status": "on_hold", "openings": float64(2)})
	require.NoError(t, err)

	assert.Equal(t, "on_hold", d.Status)
	assert.Equal(t, 2, d.Openings)
	assert.Equal(t, "Backend Engineer", d.Title) // untouched
}

func TestApplyPatchNeverChangesID(t *testing.T) {
	c := Candidate{ID: "c1", Name: "Asha"}

	err := ApplyPatch(&c, map[string]any{"id": "evil", "name": "Asha Rao"})
	require.NoError(t, err)

	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "Asha Rao", c.Name)
}

func TestApplyPatchDropsUnknownFields(t *testing.T) {
	iv := Interview{ID: "i1", Status: "scheduled"}

	err := ApplyPatch(&iv, map[string]any{"status": "completed", "notAField": "x"})
	require.NoError(t, err)
	assert.Equal(t, "completed", iv.Status)
}

func TestOverlayLocalPrefersLocalValues(t *testing.T) {
	remote := Candidate{
		ID:     "5",
		Name:   "From Remote",
		Email:  "r@example.com",
		Status: "applied",
	}
	local := Candidate{
		ID:             "5",
		Name:           "From Local", // not in the allow-list, must not win
		Status:         "selected",
		Round1Feedback: "good",
		CurrentRound:   2,
	}

	remote.OverlayLocal(local)

	assert.Equal(t, "selected", remote.Status)
	assert.Equal(t, "good", remote.Round1Feedback)
	assert.Equal(t, 2, remote.CurrentRound)
	assert.Equal(t, "From Remote", remote.Name)
	assert.Equal(t, "r@example.com", remote.Email)
}

func TestOverlayLocalKeepsRemoteDefaults(t *testing.T) {
	remote := Candidate{ID: "5", Status: "applied", InterviewStatus: "pending"}
	local := Candidate{ID: "5"} // nothing set locally

	remote.OverlayLocal(local)

	assert.Equal(t, "applied", remote.Status)
	assert.Equal(t, "pending", remote.InterviewStatus)
}
