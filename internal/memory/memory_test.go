package memory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plesir/internal/domain"
)

func TestRecent_FewerTurnsThanWindow(t *testing.T) {
	tr := New()
	tr.Append(domain.Turn{Role: domain.RoleUser, Text: "halo"})
	tr.Append(domain.Turn{Role: domain.RoleAssistant, Text: "halo juga"})

	window := tr.Recent(6)
	require.Len(t, window, 2)
	assert.Equal(t, "halo", window[0].Text)
	assert.Equal(t, "halo juga", window[1].Text)
}

func TestRecent_MoreTurnsThanWindow(t *testing.T) {
	tr := New()
	for i := 0; i < 10; i++ {
		tr.Append(domain.Turn{Role: domain.RoleUser, Text: fmt.Sprintf("turn %d", i)})
	}

	window := tr.Recent(4)
	require.Len(t, window, 4)
	assert.Equal(t, "turn 6", window[0].Text)
	assert.Equal(t, "turn 9", window[3].Text)
}

func TestRecent_DoesNotAliasStorage(t *testing.T) {
	tr := New()
	tr.Append(domain.Turn{Role: domain.RoleUser, Text: "asli"})

	window := tr.Recent(1)
	window[0].Text = "diubah"

	again := tr.Recent(1)
	assert.Equal(t, "asli", again[0].Text)
}

func TestRecent_NonPositiveWindow(t *testing.T) {
	tr := New()
	tr.Append(domain.Turn{Role: domain.RoleUser, Text: "halo"})
	assert.Empty(t, tr.Recent(0))
}

func TestClear(t *testing.T) {
	tr := New()
	tr.Append(domain.Turn{Role: domain.RoleUser, Text: "halo"})
	require.Equal(t, 1, tr.Len())

	tr.Clear()
	assert.Zero(t, tr.Len())
	assert.Empty(t, tr.Recent(6))
}
