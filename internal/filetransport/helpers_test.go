package filetransport

import (
	"context"
	"testing"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/store"
	"github.com/roach88/sitesync/internal/testutil"
)

func newStore(t *testing.T) *store.Store {
	return testutil.NewTestStore(t)
}

func findLocation(st *store.Store, id string) (*domain.LocationRow, error) {
	return store.FindByID[domain.LocationRow](context.Background(), st.Connection(), id)
}
