package authwidget

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyflow/core"
	"github.com/trezcool/studyflow/tests"
)

func newConfig() *core.Config {
	conf := &core.Config{}
	conf.AuthWidget.SDKURL = "https://cdn.apper.io/apper-dev-script/index.umd.js"
	conf.AuthWidget.ProjectID = "proj-1"
	conf.AuthWidget.PublicKey = "pk-1"
	return conf
}

func TestApperUI_Initialize(t *testing.T) {
	cases := []struct {
		name    string
		modify  func(conf *core.Config)
		wantErr string
	}{
		{name: "valid settings"},
		{
			name:    "missing settings",
			modify:  func(conf *core.Config) { conf.AuthWidget.ProjectID = ""; conf.AuthWidget.PublicKey = "" },
			wantErr: "auth widget: missing project id, public key",
		},
		{
			name:    "invalid sdk url",
			modify:  func(conf *core.Config) { conf.AuthWidget.SDKURL = "index.umd.js" },
			wantErr: `invalid sdk url "index.umd.js"`,
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			conf := newConfig()
			if tt.modify != nil {
				tt.modify(conf)
			}
			w := NewApperUI(conf, testutil.NewLogger())

			err := w.Initialize(context.Background())
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				assert.False(t, w.IsReady())
				return
			}
			require.NoError(t, err)
			assert.True(t, w.IsReady())
		})
	}
}

func TestApperUI_Mount(t *testing.T) {
	w := NewApperUI(newConfig(), testutil.NewLogger())

	_, err := w.Mount("authentication-login")
	assert.ErrorIs(t, err, core.ErrAuthNotReady)

	require.NoError(t, w.Initialize(context.Background()))

	m, err := w.Mount("authentication-login")
	require.NoError(t, err)
	assert.Equal(t, "authentication-login", m.ContainerID)
	assert.Equal(t, core.ViewLogin, m.View)
	assert.Equal(t, "https://cdn.apper.io/apper-dev-script/index.umd.js", m.SDKURL)
	assert.Contains(t, string(m.Script), `ApperUI.showLogin("#authentication-login")`)
	assert.Contains(t, string(m.Script), `projectId: "proj-1"`)

	m, err = w.Mount("#authentication-signup", core.ViewSignup)
	require.NoError(t, err)
	assert.Equal(t, "authentication-signup", m.ContainerID)
	assert.Contains(t, string(m.Script), `ApperUI.showSignup("#authentication-signup")`)

	_, err = w.Mount("  ")
	assert.ErrorIs(t, err, errMissingContainer)

	_, err = w.Mount("box", "reset")
	assert.EqualError(t, err, `unknown auth view "reset"`)
}

func TestApperUI_MountEscapesSettings(t *testing.T) {
	conf := newConfig()
	conf.AuthWidget.ProjectID = `proj"</script><script>alert(1)</script><!--`
	w := NewApperUI(conf, testutil.NewLogger())
	require.NoError(t, w.Initialize(context.Background()))

	m, err := w.Mount(`box"); alert(2); ("`)
	require.NoError(t, err)

	script := string(m.Script)
	assert.NotContains(t, script, "</script>")
	assert.NotContains(t, script, "<!--")
	assert.Contains(t, script, `projectId: "proj\"\u003C/script\u003E`)
	assert.Contains(t, script, `ApperUI.showLogin("#box\"); alert(2); (\"");`)
}
