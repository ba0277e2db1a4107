package memory_test

import (
	"testing"

	"github.com/noahunallar/braid/pkg/adapters/memory"
	"github.com/noahunallar/braid/pkg/ports"
)

func TestStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, memory.NewStore())
}
