package apps

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyflow/core"
)

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		modify  func(conf *core.Config)
		wantErr string
	}{
		{name: "memory", modify: func(conf *core.Config) { conf.Backend.Driver = core.DriverMemory }},
		{
			name: "bolt",
			modify: func(conf *core.Config) {
				conf.Backend.Driver = core.DriverBolt
				conf.Bolt.Path = filepath.Join(t.TempDir(), "studyflow.db")
				conf.Bolt.Timeout = time.Second
			},
		},
		{
			name: "apper",
			modify: func(conf *core.Config) {
				conf.Backend.Driver = core.DriverApper
				conf.Backend.ProjectID = "proj-1"
				conf.Backend.APIKey = "secret"
			},
		},
		{
			name:    "apper without credentials",
			modify:  func(conf *core.Config) { conf.Backend.Driver = core.DriverApper },
			wantErr: "apper backend: project id and api key are required",
		},
		{
			name: "supabase",
			modify: func(conf *core.Config) {
				conf.Backend.Driver = core.DriverSupabase
				conf.Backend.URL = "https://project.supabase.co"
				conf.Backend.APIKey = "anon-key"
			},
		},
		{
			name:    "unknown driver",
			modify:  func(conf *core.Config) { conf.Backend.Driver = "mongo" },
			wantErr: `unknown backend driver "mongo"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := &core.Config{}
			tt.modify(conf)

			b, err := OpenBackend(ctx, conf, false)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, b.Client)
			assert.NoError(t, b.Close())
		})
	}
}
