package goadmin

import (
	"context"
	"errors"
	"fmt"
	"path"

	statboard "github.com/goliatone/go-statboard/pkg/dashboard"
)

// MenuBuilder ensures dashboard entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures dashboard link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
	// Parent is the route of the item this one nests under.
	Parent string
}

// Config wires a statboard App and feature flags into an admin shell.
type Config struct {
	EnableDashboard bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	App             *statboard.App
	DefaultMenuItem MenuItem
	// SectionLinks adds one child entry per dashboard section, linking to
	// the section anchor on the page.
	SectionLinks bool
	// Locale picks the section titles; the app locale when empty.
	Locale string
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed dashboard menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableDashboard && cfg.App == nil {
		return nil, errors.New("goadmin: statboard app is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Dashboard"
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = "admin.dashboard"
		if cfg.App != nil {
			cfg.DefaultMenuItem.Route = path.Join(cfg.App.Config.BasePath, "dashboard")
		}
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "home"
	}
	if cfg.Locale == "" && cfg.App != nil {
		cfg.Locale = cfg.App.Dashboard.Locale()
	}
	return &Admin{cfg: cfg}, nil
}

// Dashboard exposes the configured statboard app when enabled.
func (a *Admin) Dashboard() *statboard.App {
	if !a.cfg.EnableDashboard {
		return nil
	}
	return a.cfg.App
}

// MenuItems lists the entries Bootstrap seeds, the dashboard link first.
func (a *Admin) MenuItems() []MenuItem {
	if !a.cfg.EnableDashboard {
		return nil
	}
	root := a.cfg.DefaultMenuItem
	items := []MenuItem{root}
	if !a.cfg.SectionLinks {
		return items
	}
	for _, view := range a.cfg.App.Dashboard.Sections() {
		if view.Section.Code == "" || len(view.Indicators) == 0 {
			continue
		}
		items = append(items, MenuItem{
			Label:    view.Section.TitleFor(a.cfg.Locale),
			Route:    root.Route + "#section-" + view.Section.Code,
			Icon:     root.Icon,
			Position: len(items),
			Parent:   root.Route,
		})
	}
	return items
}

// Bootstrap seeds menu entries when dashboard support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableDashboard || a.cfg.MenuBuilder == nil {
		return nil
	}
	for _, item := range a.MenuItems() {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return fmt.Errorf("goadmin: ensure menu item %s: %w", item.Route, err)
		}
	}
	return nil
}
