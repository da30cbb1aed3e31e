package service

import (
	"errors"
	"testing"

	"trainvoc-updates/internal/navigation"
)

func TestChangelogService_ResolveDeepLink(t *testing.T) {
	service := NewChangelogService(staticVersions(sampleVersions()))
	graph := navigation.AppGraph()

	link, err := service.ResolveDeepLink(graph, "changelog?versionCode=11")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if link.Destination.Screen != "ChangelogScreen" {
		t.Errorf("expected changelog screen, got %s", link.Destination.Screen)
	}
	if link.Version == nil || link.Version.VersionCode != 11 {
		t.Errorf("expected version 11 attached, got %+v", link.Version)
	}

	link, err = service.ResolveDeepLink(graph, "changelog")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if link.Version != nil {
		t.Errorf("expected no version without an argument, got %d", link.Version.VersionCode)
	}

	if _, err := service.ResolveDeepLink(graph, "changelog?versionCode=99"); !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("expected ErrVersionNotFound, got %v", err)
	}
	if _, err := service.ResolveDeepLink(graph, "changelog?versionCode=abc"); !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("expected ErrInvalidVersion, got %v", err)
	}
	if _, err := service.ResolveDeepLink(graph, "nowhere"); !errors.Is(err, navigation.ErrUnknownRoute) {
		t.Errorf("expected ErrUnknownRoute, got %v", err)
	}
}
