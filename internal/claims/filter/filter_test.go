package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
)

func record(id, name, village, district, state string, ct models.ClaimType, st models.ClaimStatus) models.ClaimRecord {
	return models.ClaimRecord{
		ID:        id,
		Name:      models.StringPtr(name),
		Village:   models.StringPtr(village),
		District:  models.StringPtr(district),
		State:     models.StringPtr(state),
		ClaimType: ct,
		Status:    st,
	}
}

func sampleRecords() []models.ClaimRecord {
	return []models.ClaimRecord{
		record("1", "Ram Singh", "Bichhiya", "Mandla", "Madhya Pradesh", models.ClaimTypeIFR, models.StatusPending),
		record("2", "Sita Devi", "Ghughri", "Mandla", "Madhya Pradesh", models.ClaimTypeCR, models.StatusApproved),
		record("3", "Budhram Maravi", "Paraswada", "Balaghat", "Madhya Pradesh", models.ClaimTypeCFR, models.StatusRejected),
		record("4", "Lakhan Uikey", "Kanha", "Seoni", "Madhya Pradesh", models.ClaimTypeIFR, models.StatusInReview),
		{ID: "5", ClaimType: models.ClaimTypeUnknown, Status: models.StatusPending}, // all display fields absent
	}
}

func ids(records []models.ClaimRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestApplySearch(t *testing.T) {
	records := sampleRecords()

	t.Run("empty term matches everything", func(t *testing.T) {
		got := Apply(records, Query{})
		assert.Len(t, got, len(records))
	})

	t.Run("case-insensitive substring on name", func(t *testing.T) {
		got := Apply(records, Query{Search: "ram s"})
		assert.Equal(t, []string{"1"}, ids(got))
	})

	t.Run("matches village and district", func(t *testing.T) {
		assert.Equal(t, []string{"2"}, ids(Apply(records, Query{Search: "GHUGHRI"})))
		assert.Equal(t, []string{"1", "2"}, ids(Apply(records, Query{Search: "mandla"})))
	})

	t.Run("absent fields never match", func(t *testing.T) {
		got := Apply(records, Query{Search: "anything"})
		assert.NotContains(t, ids(got), "5")
	})
}

func TestApplyEqualityFilters(t *testing.T) {
	records := sampleRecords()

	t.Run("single filter", func(t *testing.T) {
		got := Apply(records, Query{District: "Mandla"})
		assert.Equal(t, []string{"1", "2"}, ids(got))
	})

	t.Run("filters are ANDed", func(t *testing.T) {
		got := Apply(records, Query{District: "Mandla", Status: string(models.StatusApproved)})
		assert.Equal(t, []string{"2"}, ids(got))
	})

	t.Run("equality is case-sensitive and exact", func(t *testing.T) {
		assert.Empty(t, Apply(records, Query{District: "mandla"}))
		assert.Empty(t, Apply(records, Query{District: "Mand"}))
	})

	t.Run("claim type and status filters", func(t *testing.T) {
		assert.Equal(t, []string{"1", "4"}, ids(Apply(records, Query{ClaimType: "IFR"})))
		assert.Equal(t, []string{"4"}, ids(Apply(records, Query{Status: "In Review"})))
	})

	t.Run("search combined with filters", func(t *testing.T) {
		got := Apply(records, Query{Search: "madhya", ClaimType: "IFR", District: "Seoni"})
		assert.Equal(t, []string{"4"}, ids(got))
	})
}

// Filter composition must be commutative: applying F1 then F2 equals F2 then F1.
func TestApplyCommutative(t *testing.T) {
	records := sampleRecords()
	q1 := Query{District: "Mandla"}
	q2 := Query{Search: "singh"}

	first := Apply(Apply(records, q1), q2)
	second := Apply(Apply(records, q2), q1)
	require.Equal(t, ids(first), ids(second))

	combined := Apply(records, Query{Search: "singh", District: "Mandla"})
	assert.Equal(t, ids(first), ids(combined))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	before := ids(records)
	_ = Apply(records, Query{Status: string(models.StatusApproved)})
	assert.Equal(t, before, ids(records))
}

func TestDistinctOptions(t *testing.T) {
	records := sampleRecords()
	opts := DistinctOptions(records)

	assert.Equal(t, []string{"Madhya Pradesh"}, opts.States)
	assert.Equal(t, []string{"Balaghat", "Mandla", "Seoni"}, opts.Districts, "sorted")
	assert.Equal(t, []string{"CFR", "CR", "IFR", "Unknown"}, opts.ClaimTypes)
	assert.Equal(t, []string{"Approved", "In Review", "Pending", "Rejected"}, opts.Statuses)

	t.Run("reflects current snapshot, not a cached set", func(t *testing.T) {
		extra := append(records, record("6", "X", "Y", "Dindori", "Madhya Pradesh", models.ClaimTypeCR, models.StatusPending))
		assert.Contains(t, DistinctOptions(extra).Districts, "Dindori")
		assert.NotContains(t, DistinctOptions(records).Districts, "Dindori")
	})

	t.Run("empty snapshot yields empty options", func(t *testing.T) {
		opts := DistinctOptions(nil)
		assert.Empty(t, opts.States)
		assert.Empty(t, opts.Districts)
	})
}
