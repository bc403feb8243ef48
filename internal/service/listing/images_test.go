package listing

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func pngUploads(t *testing.T, n int) []ports.ImageUpload {
	data := pngBytes(t)
	uploads := make([]ports.ImageUpload, n)
	for i := range uploads {
		uploads[i] = ports.ImageUpload{Data: data, Filename: "foto.png", MimeType: "image/png"}
	}
	return uploads
}

func principals(images []domain.ListingImage) []string {
	var ids []string
	for _, img := range images {
		if img.Principal {
			ids = append(ids, img.ID)
		}
	}
	return ids
}

func TestAddImages_OrderAndPrincipal(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()
	listing := mustCreate(t, f, approved, "LOT-1")

	// Act
	first, err := f.svc.AddImages(ctx, approved, listing.ID, pngUploads(t, 3))
	if err != nil {
		t.Fatalf("AddImages failed: %v", err)
	}
	second, err := f.svc.AddImages(ctx, approved, listing.ID, pngUploads(t, 2))
	if err != nil {
		t.Fatalf("AddImages failed: %v", err)
	}

	// Assert
	for i, img := range first {
		if img.Order != i+1 {
			t.Errorf("Expected order %d, got %d", i+1, img.Order)
		}
	}
	if !first[0].Principal || first[1].Principal || first[2].Principal {
		t.Error("Expected only the first image of the first batch to be principal")
	}
	if second[0].Order != 4 || second[1].Order != 5 {
		t.Errorf("Expected orders to continue at 4, got %d and %d", second[0].Order, second[1].Order)
	}
	if second[0].Principal || second[1].Principal {
		t.Error("Second batch must not take the principal flag")
	}

	all, _ := f.svc.Images(ctx, listing.ID)
	if len(all) != 5 || len(principals(all)) != 1 {
		t.Errorf("Expected 5 images with one principal, got %d images and %d principals", len(all), len(principals(all)))
	}
	if len(f.blobs.Blobs) != 5 {
		t.Errorf("Expected 5 stored blobs, got %d", len(f.blobs.Blobs))
	}
}

func TestAddImages_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	listing := mustCreate(t, f, approved, "LOT-1")
	valid := pngBytes(t)

	tests := []struct {
		name   string
		upload ports.ImageUpload
	}{
		{"empty", ports.ImageUpload{Filename: "a.png"}},
		{"extension", ports.ImageUpload{Data: valid, Filename: "a.gif"}},
		{"not an image", ports.ImageUpload{Data: []byte("hello"), Filename: "a.jpg"}},
		{"too large", ports.ImageUpload{Data: make([]byte, DefaultConfig().MaxImageSize+1), Filename: "a.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddImages(ctx, approved, listing.ID, []ports.ImageUpload{tt.upload})
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}

	webp := append([]byte("RIFF\x00\x00\x00\x00WEBPVP8 "), make([]byte, 16)...)
	if _, err := f.svc.AddImages(ctx, approved, listing.ID, []ports.ImageUpload{{Data: webp, Filename: "a.WEBP"}}); err != nil {
		t.Errorf("Expected webp to be accepted, got %v", err)
	}
}

func TestAddImages_InactiveListing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	listing := mustCreate(t, f, approved, "LOT-1")
	_ = f.svc.SoftDelete(ctx, approved, listing.ID)

	_, err := f.svc.AddImages(ctx, approved, listing.ID, pngUploads(t, 1))

	if !errors.Is(err, domain.ErrBusiness) {
		t.Errorf("Expected business error, got %v", err)
	}
}

func TestAddImages_NotOwner(t *testing.T) {
	f := newFixture()
	listing := mustCreate(t, f, approved, "LOT-1")

	_, err := f.svc.AddImages(context.Background(), other, listing.ID, pngUploads(t, 1))

	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Expected forbidden, got %v", err)
	}
}

func TestAddImages_StorageFailureRollsBackBlobs(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	listing := mustCreate(t, f, approved, "LOT-1")
	calls := 0
	f.blobs.StoreFunc = func(ctx context.Context, data []byte, name, mimeType string) (string, error) {
		calls++
		if calls == 2 {
			return "", errors.New("bucket unavailable")
		}
		return "mem://" + name, nil
	}

	_, err := f.svc.AddImages(ctx, approved, listing.ID, pngUploads(t, 3))

	if err == nil {
		t.Fatal("Expected error when storage fails")
	}
	if len(f.blobs.Deleted) != 1 {
		t.Errorf("Expected the stored blob to be removed, got %d deletions", len(f.blobs.Deleted))
	}
}

func TestRemoveImage(t *testing.T) {
	ctx := context.Background()

	t.Run("last image", func(t *testing.T) {
		f := newFixture()
		listing := mustCreate(t, f, approved, "LOT-1")
		imgs, _ := f.svc.AddImages(ctx, approved, listing.ID, pngUploads(t, 1))

		err := f.svc.RemoveImage(ctx, approved, imgs[0].ID)

		if !errors.Is(err, domain.ErrBusiness) {
			t.Fatalf("Expected business error, got %v", err)
		}
		remaining, _ := f.svc.Images(ctx, listing.ID)
		if len(remaining) != 1 {
			t.Errorf("Image must be kept, got %d", len(remaining))
		}
	})

	t.Run("principal promotes next", func(t *testing.T) {
		f := newFixture()
		listing := mustCreate(t, f, approved, "LOT-1")
		imgs, _ := f.svc.AddImages(ctx, approved, listing.ID, pngUploads(t, 3))

		if err := f.svc.RemoveImage(ctx, approved, imgs[0].ID); err != nil {
			t.Fatalf("RemoveImage failed: %v", err)
		}

		remaining, _ := f.svc.Images(ctx, listing.ID)
		got := principals(remaining)
		if len(remaining) != 2 || len(got) != 1 || got[0] != imgs[1].ID {
			t.Errorf("Expected %s to become principal, got %v", imgs[1].ID, got)
		}
		if len(f.blobs.Deleted) != 1 || f.blobs.Deleted[0] != imgs[0].URL {
			t.Errorf("Expected the file to be removed, got %v", f.blobs.Deleted)
		}
	})

	t.Run("blob failure is logged", func(t *testing.T) {
		f := newFixture()
		listing := mustCreate(t, f, approved, "LOT-1")
		imgs, _ := f.svc.AddImages(ctx, approved, listing.ID, pngUploads(t, 2))
		f.blobs.DeleteFunc = func(ctx context.Context, url string) error { return errors.New("permission denied") }

		if err := f.svc.RemoveImage(ctx, approved, imgs[1].ID); err != nil {
			t.Fatalf("Expected removal to succeed, got %v", err)
		}
		remaining, _ := f.svc.Images(ctx, listing.ID)
		if len(remaining) != 1 || !remaining[0].Principal {
			t.Errorf("Expected principal image to remain, got %+v", remaining)
		}
	})

	t.Run("missing image", func(t *testing.T) {
		f := newFixture()
		if err := f.svc.RemoveImage(ctx, approved, "missing"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Expected not found, got %v", err)
		}
	})
}

func TestSetPrincipalImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	listing := mustCreate(t, f, approved, "LOT-1")
	imgs, _ := f.svc.AddImages(ctx, approved, listing.ID, pngUploads(t, 3))

	if _, err := f.svc.SetPrincipalImage(ctx, other, imgs[2].ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Expected forbidden, got %v", err)
	}
	if _, err := f.svc.SetPrincipalImage(ctx, approved, imgs[2].ID); err != nil {
		t.Fatalf("SetPrincipalImage failed: %v", err)
	}

	all, _ := f.svc.Images(ctx, listing.ID)
	got := principals(all)
	if len(got) != 1 || got[0] != imgs[2].ID {
		t.Errorf("Expected exactly %s as principal, got %v", imgs[2].ID, got)
	}
}

func TestUpdateImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	listing := mustCreate(t, f, approved, "LOT-1")
	imgs, _ := f.svc.AddImages(ctx, approved, listing.ID, pngUploads(t, 2))

	updated, err := f.svc.UpdateImage(ctx, approved, imgs[0].ID, "Fachada", 0)
	if err != nil {
		t.Fatalf("UpdateImage failed: %v", err)
	}
	if updated.Caption != "Fachada" || updated.Order != 1 {
		t.Errorf("Expected caption set and order kept, got %+v", updated)
	}

	if _, err := f.svc.UpdateImage(ctx, approved, imgs[0].ID, "", 9); err != nil {
		t.Fatalf("UpdateImage failed: %v", err)
	}
	all, _ := f.svc.Images(ctx, listing.ID)
	if all[len(all)-1].ID != imgs[0].ID || all[len(all)-1].Caption != "Fachada" {
		t.Errorf("Expected reordered image last with caption kept, got %+v", all)
	}
}
