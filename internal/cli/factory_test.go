package cli_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/dyeflow/internal/cli"
	"github.com/aretw0/dyeflow/internal/config"
	"github.com/aretw0/dyeflow/internal/logging"
	"github.com/aretw0/dyeflow/pkg/adapters/file"
	"github.com/aretw0/dyeflow/pkg/adapters/memory"
	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSnapshots(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name  string
		cfg   config.Store
		check func(t *testing.T, s any)
	}{
		{"memory", config.Store{Kind: "memory"}, func(t *testing.T, s any) {
			assert.IsType(t, &memory.Store{}, s)
		}},
		{"file", config.Store{Kind: "file", Path: t.TempDir()}, func(t *testing.T, s any) {
			assert.IsType(t, &file.Store{}, s)
		}},
		{"redis", config.Store{Kind: "redis", RedisURL: "redis://" + mr.Addr()}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, closeFn, err := cli.OpenSnapshots(ctx, tt.cfg)
			require.NoError(t, err)
			defer closeFn()
			if tt.check != nil {
				tt.check(t, s)
			}
			require.NoError(t, s.Save(ctx, "probe", []byte("{}")))
		})
	}

	_, _, err := cli.OpenSnapshots(ctx, config.Store{Kind: "tape"})
	assert.Error(t, err)
}

func TestNewEditor(t *testing.T) {
	cfg := config.Default()
	cfg.RootLabel = "Depot"

	ed, closeFn, err := cli.NewEditor(context.Background(), cfg, logging.NewNop(), domain.Hooks{})
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, "Depot", ed.CurrentScope().Label)
	assert.Len(t, ed.CurrentGraph().Nodes, 6)

	cfg.Seed = false
	empty, closeEmpty, err := cli.NewEditor(context.Background(), cfg, logging.NewNop(), domain.Hooks{})
	require.NoError(t, err)
	defer closeEmpty()
	assert.Empty(t, empty.CurrentGraph().Nodes)
}

func TestOpenSnapshots_Encrypted(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key := base64.StdEncoding.EncodeToString(make([]byte, 32))

	s, closeFn, err := cli.OpenSnapshots(ctx, config.Store{Kind: "file", Path: dir, EncryptionKey: key})
	require.NoError(t, err)
	defer closeFn()
	require.NoError(t, s.Save(ctx, "plan", []byte(`{"secret":true}`)))

	raw, err := file.New(dir).Load(ctx, "plan")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")

	data, err := s.Load(ctx, "plan")
	require.NoError(t, err)
	assert.Equal(t, `{"secret":true}`, string(data))

	_, _, err = cli.OpenSnapshots(ctx, config.Store{Kind: "memory", EncryptionKey: "abc"})
	assert.Error(t, err)
}
