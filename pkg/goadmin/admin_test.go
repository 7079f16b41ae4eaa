package goadmin_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/goliatone/go-statboard/components/dashboard"
	"github.com/goliatone/go-statboard/pkg/config"
	statboard "github.com/goliatone/go-statboard/pkg/dashboard"
	"github.com/goliatone/go-statboard/pkg/goadmin"
	"github.com/goliatone/go-statboard/pkg/sources"
)

type stubMenuBuilder struct {
	menus []string
	items []goadmin.MenuItem
	err   error
}

func (s *stubMenuBuilder) EnsureMenuItem(_ context.Context, menuCode string, item goadmin.MenuItem) error {
	if s.err != nil {
		return s.err
	}
	s.menus = append(s.menus, menuCode)
	s.items = append(s.items, item)
	return nil
}

func newTestApp(t *testing.T) *statboard.App {
	t.Helper()
	cfg, err := config.LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STATBOARD_TIMEZONE": "UTC",
	}))
	require.NoError(t, err)
	logger := zerolog.Nop()
	set := sources.FixtureSourceSet(sources.NewFixtures(sources.FixtureData{}), 1)
	app, err := statboard.NewApp(statboard.AppOptions{
		Config:   cfg,
		Logger:   &logger,
		Sources:  &set,
		Renderer: core.RendererFunc(func(string, any, ...io.Writer) (string, error) { return "", nil }),
	})
	require.NoError(t, err)
	return app
}

func TestAdminBootstrapSeedsMenu(t *testing.T) {
	t.Parallel()

	builder := &stubMenuBuilder{}
	app := newTestApp(t)
	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: true,
		App:             app,
		MenuBuilder:     builder,
	})
	require.NoError(t, err)
	require.NoError(t, admin.Bootstrap(context.Background()))

	require.Len(t, builder.items, 1)
	assert.Equal(t, []string{"admin.main"}, builder.menus)
	assert.Equal(t, goadmin.MenuItem{Label: "Dashboard", Route: "/admin/dashboard", Icon: "home"}, builder.items[0])
	assert.Same(t, app, admin.Dashboard())
}

func TestAdminBootstrapSeedsSectionLinks(t *testing.T) {
	t.Parallel()

	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: true,
		App:             newTestApp(t),
		MenuBuilder:     builder,
		MenuCode:        "sidebar",
		SectionLinks:    true,
		Locale:          "en",
	})
	require.NoError(t, err)
	require.NoError(t, admin.Bootstrap(context.Background()))

	require.Len(t, builder.items, 4)
	assert.Equal(t, "sidebar", builder.menus[3])
	security := builder.items[1]
	assert.Equal(t, "Public Security", security.Label)
	assert.Equal(t, "/admin/dashboard#section-seguranca-publica", security.Route)
	assert.Equal(t, "/admin/dashboard", security.Parent)
	assert.Equal(t, 1, security.Position)
	assert.Equal(t, "Other Social Factors", builder.items[3].Label)
}

func TestAdminBootstrapWrapsBuilderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("menu store down")
	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: true,
		App:             newTestApp(t),
		MenuBuilder:     &stubMenuBuilder{err: boom},
	})
	require.NoError(t, err)

	err = admin.Bootstrap(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "/admin/dashboard")
}

func TestAdminRequiresAppWhenEnabled(t *testing.T) {
	t.Parallel()

	_, err := goadmin.New(goadmin.Config{EnableDashboard: true})
	require.Error(t, err)
}

func TestAdminDisabledSkipsBootstrap(t *testing.T) {
	t.Parallel()

	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: false,
		MenuBuilder:     builder,
	})
	require.NoError(t, err)
	require.NoError(t, admin.Bootstrap(context.Background()))

	assert.Empty(t, builder.items)
	assert.Nil(t, admin.Dashboard())
	assert.Nil(t, admin.MenuItems())
}
