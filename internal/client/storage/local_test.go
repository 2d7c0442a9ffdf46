package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "octopus_projects_local", SnapshotKey("", "projects"))
	assert.Equal(t, "crm_leads_local", SnapshotKey("crm", "leads"))
}
