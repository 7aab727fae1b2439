package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prefab-leads/internal/entity"
)

func TestFormatPrice(t *testing.T) {
	tests := map[float64]string{
		0:         "0",
		950:       "950",
		1000:      "1.000",
		119000:    "119.000",
		1234567:   "1.234.567",
		-4500:     "-4.500",
		119999.99: "119.999,99",
		0.5:       "0,50",
		99.999:    "100",
		-12.3:     "-12,30",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatPrice(in))
	}
}

// TestRenderNewLead - the sales mail carries contact data and escapes user text
func TestRenderNewLead(t *testing.T) {
	lead := entity.Lead{
		ID:             "lead-1",
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          "jane@example.com",
		Phone:          "+49 151 000000",
		Message:        "<script>alert(1)</script>",
		TotalPrice:     131500,
		ReserveSlot:    true,
		PreferredMonth: "2026-09",
		Configuration:  entity.Configuration{Upgrades: []string{"solar", "sauna"}},
	}

	body, err := RenderNewLead(lead, "Nature")
	require.NoError(t, err)

	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "Nature")
	assert.Contains(t, body, "131.500 €")
	assert.Contains(t, body, "Upgrades: 2")
	assert.Contains(t, body, "requested for 2026-09")
	assert.Contains(t, body, "Lead lead-1")
	assert.NotContains(t, body, "<script>")
}

func TestRenderNewLeadWithoutSlot(t *testing.T) {
	body, err := RenderNewLead(entity.Lead{FirstName: "Bob", PreferredMonth: "2026-09"}, "Rebel")
	require.NoError(t, err)
	assert.NotContains(t, body, "requested for")
}
