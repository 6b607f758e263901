package projects

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Irakli288/my-portfolio/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewService(db, zerolog.Nop())
}

func TestSeedIsIdempotent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if err := s.Seed(ctx); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	first, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("Seed() left the projects table empty")
	}

	// Seeding again must not duplicate anything
	if err := s.Seed(ctx); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}
	second, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(second) != len(first) {
		t.Errorf("second Seed() changed project count: %d -> %d", len(first), len(second))
	}
}

func TestTagReplacement(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tagA, err := s.CreateTag(ctx, "go")
	if err != nil {
		t.Fatalf("CreateTag() error: %v", err)
	}
	tagB, err := s.CreateTag(ctx, "web")
	if err != nil {
		t.Fatalf("CreateTag() error: %v", err)
	}

	project, err := s.Create(ctx, ProjectParams{
		Title:           "T",
		Description:     "D",
		FullDescription: "F",
		TagIDs:          []string{tagA.ID},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if len(project.Tags) != 1 || project.Tags[0].ID != tagA.ID {
		t.Fatalf("Create() tags = %v, want [%s]", project.Tags, tagA.ID)
	}

	// Update swaps the tag set entirely
	project, err = s.Update(ctx, project.ID, ProjectParams{
		Title:           "T",
		Description:     "D",
		FullDescription: "F",
		TagIDs:          []string{tagB.ID},
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if len(project.Tags) != 1 || project.Tags[0].ID != tagB.ID {
		t.Fatalf("Update() tags = %v, want [%s]", project.Tags, tagB.ID)
	}
}

func TestCreateTagTrimsAndRejectsDuplicates(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tag, err := s.CreateTag(ctx, "  golang  ")
	if err != nil {
		t.Fatalf("CreateTag() error: %v", err)
	}
	if tag.Name != "golang" {
		t.Errorf("CreateTag() name = %q, want %q", tag.Name, "golang")
	}

	if _, err := s.CreateTag(ctx, "golang"); !errors.Is(err, ErrDuplicateTag) {
		t.Errorf("CreateTag() duplicate error = %v, want ErrDuplicateTag", err)
	}
}

func TestDeleteTagUnlinksProjects(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tag, err := s.CreateTag(ctx, "go")
	if err != nil {
		t.Fatalf("CreateTag() error: %v", err)
	}
	project, err := s.Create(ctx, ProjectParams{
		Title:           "T",
		Description:     "D",
		FullDescription: "F",
		TagIDs:          []string{tag.ID},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	deleted, err := s.DeleteTag(ctx, tag.ID)
	if err != nil {
		t.Fatalf("DeleteTag() error: %v", err)
	}
	if !deleted {
		t.Fatal("DeleteTag() reported not found")
	}

	got, err := s.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got == nil {
		t.Fatal("project disappeared with its tag")
	}
	if len(got.Tags) != 0 {
		t.Errorf("project still carries %d tags after tag deletion", len(got.Tags))
	}
}

func TestDeleteMissingProject(t *testing.T) {
	s := newTestService(t)

	deleted, err := s.Delete(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if deleted {
		t.Error("Delete() reported success for a missing project")
	}
}
