package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/octosync/internal/models"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name   string
		remote models.Snapshot
		local  models.Snapshot
		want   []string
	}{
		{
			name: "both empty",
			want: []string{},
		},
		{
			name:  "local only",
			local: models.Snapshot{entity("a", "l")},
			want:  []string{"a:l"},
		},
		{
			name:   "remote only",
			remote: models.Snapshot{entity("a", "r")},
			want:   []string{"a:r"},
		},
		{
			name:   "remote wins on conflict",
			remote: models.Snapshot{entity("a", "r")},
			local:  models.Snapshot{entity("a", "l")},
			want:   []string{"a:r"},
		},
		{
			name:   "remote order first, then local-only in local order",
			remote: models.Snapshot{entity("c", "r"), entity("a", "r")},
			local:  models.Snapshot{entity("z", "l"), entity("a", "l"), entity("b", "l")},
			want:   []string{"c:r", "a:r", "z:l", "b:l"},
		},
		{
			name:   "invalid and duplicate entries dropped",
			remote: models.Snapshot{entity("a", "r1"), entity("a", "r2"), {"name": "no-id"}},
			local:  models.Snapshot{entity("b", "l1"), entity("b", "l2")},
			want:   []string{"a:r1", "b:l1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Merge(tt.remote, tt.local)))
		})
	}
}

func TestMerge_DoesNotAliasInputs(t *testing.T) {
	remote := models.Snapshot{entity("a", "r")}
	local := models.Snapshot{entity("b", "l")}

	merged := Merge(remote, local)
	merged[0]["name"] = "changed"
	merged[1]["name"] = "changed"

	assert.Equal(t, "r", remote[0]["name"])
	assert.Equal(t, "l", local[0]["name"])
}

func TestMerge_Idempotent(t *testing.T) {
	remote := models.Snapshot{entity("a", "r")}
	local := models.Snapshot{entity("a", "l"), entity("b", "l")}

	once := Merge(remote, local)
	twice := Merge(remote, once)

	assert.Equal(t, names(once), names(twice))
}
