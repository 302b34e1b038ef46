package projectscmd_test

import (
	"context"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	projectscmd "github.com/goliatone/go-portfolio/internal/commands/projects"
	"github.com/goliatone/go-portfolio/internal/github"
	"github.com/goliatone/go-portfolio/internal/projects"
)

type stubStore struct {
	project *projects.Project
	getErr  error
	updated *projects.RepoMetadata
}

func (s *stubStore) GetBySlug(_ context.Context, slug string) (*projects.Project, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.project, nil
}

func (s *stubStore) UpdateRepoMetadata(_ context.Context, _ uuid.UUID, meta projects.RepoMetadata) error {
	s.updated = &meta
	return nil
}

type stubFetcher struct {
	meta *github.RepoMeta
}

func (s *stubFetcher) FetchRepoMetadata(_ context.Context, _ string) *github.RepoMeta {
	return s.meta
}

func TestRefreshProjectMetadataHandler_Execute(t *testing.T) {
	repoURL := "https://github.com/acme/widget"
	lang := "Go"
	pushed := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	store := &stubStore{project: &projects.Project{
		ID:      uuid.New(),
		Slug:    "widget",
		RepoURL: &repoURL,
	}}
	fetcher := &stubFetcher{meta: &github.RepoMeta{
		Stars:        9,
		Forks:        1,
		Language:     &lang,
		LastPushedAt: &pushed,
	}}

	h := projectscmd.NewRefreshProjectMetadataHandler(store, fetcher, nil)
	if err := h.Execute(context.Background(), projectscmd.RefreshProjectMetadataCommand{Slug: "widget"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if store.updated == nil || store.updated.Stars != 9 {
		t.Fatalf("expected metadata stored, got %+v", store.updated)
	}
}

func TestRefreshProjectMetadataHandler_RequiresSlug(t *testing.T) {
	h := projectscmd.NewRefreshProjectMetadataHandler(&stubStore{}, &stubFetcher{}, nil)

	err := h.Execute(context.Background(), projectscmd.RefreshProjectMetadataCommand{})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestRefreshProjectMetadataHandler_NoRepoURL(t *testing.T) {
	store := &stubStore{project: &projects.Project{ID: uuid.New(), Slug: "bare"}}
	h := projectscmd.NewRefreshProjectMetadataHandler(store, &stubFetcher{}, nil)

	err := h.Execute(context.Background(), projectscmd.RefreshProjectMetadataCommand{Slug: "bare"})
	if err == nil {
		t.Fatal("expected error for project without repo_url")
	}
	if store.updated != nil {
		t.Fatal("metadata must not be written")
	}
}

func TestRefreshProjectMetadataHandler_ProviderMissIsError(t *testing.T) {
	repoURL := "https://github.com/acme/ghost"
	store := &stubStore{project: &projects.Project{ID: uuid.New(), Slug: "ghost", RepoURL: &repoURL}}
	h := projectscmd.NewRefreshProjectMetadataHandler(store, &stubFetcher{meta: nil}, nil)

	err := h.Execute(context.Background(), projectscmd.RefreshProjectMetadataCommand{Slug: "ghost"})
	if err == nil {
		t.Fatal("expected error when provider returns nothing")
	}
	if store.updated != nil {
		t.Fatal("metadata must not be written")
	}
}
