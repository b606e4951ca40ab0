package camp

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/campy/campy-api/internal/domain/pricing"
	"github.com/campy/campy-api/internal/pkg/imaging"
)

type fixture struct {
	svc     *Service
	repo    *fakeRepo
	cache   *memoryCache
	storage *memoryStorage
	hostID  uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:    newFakeRepo(),
		cache:   newMemoryCache(),
		storage: newMemoryStorage(),
		hostID:  uuid.New(),
	}
	f.svc = NewService(f.repo, f.cache, f.storage, imaging.NewProcessor(imaging.CampPhotoConfig()), pricing.NewCalculator(pricing.DefaultVATRate))
	return f
}

// publishedCamp creates a camp with a 1000 THB tent for two and publishes it
func (f *fixture) publishedCamp(t *testing.T) (*Camp, *Accommodation) {
	t.Helper()
	ctx := context.Background()
	c, err := f.svc.Create(ctx, f.hostID, &CreateCampRequest{Name: "Doi Inthanon Camp", Province: "Chiang Mai"})
	if err != nil {
		t.Fatal(err)
	}
	acc, err := f.svc.AddAccommodation(ctx, c.ID, f.hostID, &AccommodationRequest{
		Type: "tent", Name: "Riverside Tent", PricePerNight: 1000, MaxGuests: 2,
		ExtraAdultPrice: 300, ExtraChildPrice: 150,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Publish(ctx, c.ID, f.hostID); err != nil {
		t.Fatal(err)
	}
	return c, acc
}

func TestPublishRequiresAccommodation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, _ := f.svc.Create(ctx, f.hostID, &CreateCampRequest{Name: "Empty Camp", Province: "Krabi"})

	if _, err := f.svc.Publish(ctx, c.ID, f.hostID); !errors.Is(err, ErrNoAccommodations) {
		t.Fatalf("expected ErrNoAccommodations, got %v", err)
	}
	if _, err := f.svc.Publish(ctx, c.ID, uuid.New()); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestGetDetailHidesDraftsFromPublic(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, _ := f.svc.Create(ctx, f.hostID, &CreateCampRequest{Name: "Draft Camp", Province: "Nan"})

	if _, err := f.svc.GetDetail(ctx, c.ID, uuid.Nil); !errors.Is(err, ErrCampNotFound) {
		t.Fatalf("expected draft hidden, got %v", err)
	}
	d, err := f.svc.GetDetail(ctx, c.ID, f.hostID)
	if err != nil || d.Camp.ID != c.ID {
		t.Fatalf("host should see own draft: %v", err)
	}
	if _, ok := f.cache.Get(ctx, c.ID); ok {
		t.Fatal("drafts must not be cached")
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, _ := f.publishedCamp(t)

	if _, err := f.svc.GetDetail(ctx, c.ID, uuid.Nil); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.cache.Get(ctx, c.ID); !ok {
		t.Fatal("expected published detail to be cached")
	}

	name := "Renamed Camp"
	if _, err := f.svc.Update(ctx, c.ID, f.hostID, &UpdateCampRequest{Name: &name}); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.cache.Get(ctx, c.ID); ok {
		t.Fatal("expected cache entry to be dropped after update")
	}
}

func TestQuote(t *testing.T) {
	f := newFixture()
	c, acc := f.publishedCamp(t)

	q, err := f.svc.Quote(context.Background(), c.ID, &QuoteRequest{
		AccommodationID: acc.ID,
		CheckIn:         "2026-11-01",
		CheckOut:        "2026-11-04",
		Guests:          pricing.GuestCount{Adults: 3, Children: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(q.Pricing.Total-4654.5) > 1e-9 {
		t.Fatalf("expected total 4654.5, got %v", q.Pricing.Total)
	}
	if q.Display.Currency != "THB" || q.Display.Total != "฿4,654.50" {
		t.Fatalf("unexpected display %+v", q.Display)
	}
}

func TestQuoteZeroNightsHasNoPrice(t *testing.T) {
	f := newFixture()
	c, acc := f.publishedCamp(t)

	q, err := f.svc.Quote(context.Background(), c.ID, &QuoteRequest{AccommodationID: acc.ID, CheckIn: "2026-11-04", CheckOut: "2026-11-04", Guests: pricing.GuestCount{Adults: 1}, Currency: "USD"})
	if err != nil {
		t.Fatalf("expected a null quote, got error %v", err)
	}
	if q.Pricing != nil || q.Display != nil {
		t.Fatalf("expected null pricing and display, got %+v", q)
	}
}

func TestQuoteErrors(t *testing.T) {
	f := newFixture()
	c, acc := f.publishedCamp(t)
	ctx := context.Background()

	_, err := f.svc.Quote(ctx, c.ID, &QuoteRequest{AccommodationID: acc.ID, CheckIn: "04/11/2026", CheckOut: "2026-11-05", Guests: pricing.GuestCount{Adults: 1}})
	if !errors.Is(err, pricing.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	_, err = f.svc.Quote(ctx, c.ID, &QuoteRequest{AccommodationID: uuid.New(), CheckIn: "2026-11-01", CheckOut: "2026-11-02", Guests: pricing.GuestCount{Adults: 1}})
	if !errors.Is(err, ErrAccommodationNotFound) {
		t.Fatalf("expected ErrAccommodationNotFound, got %v", err)
	}
}

func TestUpdateAccommodationChecksCamp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, acc := f.publishedCamp(t)
	other, _ := f.svc.Create(ctx, f.hostID, &CreateCampRequest{Name: "Other Camp", Province: "Loei"})

	price := 1200.0
	if _, err := f.svc.UpdateAccommodation(ctx, other.ID, acc.ID, f.hostID, &UpdateAccommodationRequest{PricePerNight: &price}); !errors.Is(err, ErrAccommodationNotFound) {
		t.Fatalf("expected ErrAccommodationNotFound, got %v", err)
	}
	updated, err := f.svc.UpdateAccommodation(ctx, c.ID, acc.ID, f.hostID, &UpdateAccommodationRequest{PricePerNight: &price})
	if err != nil || updated.PricePerNight != 1200 {
		t.Fatalf("unexpected %+v %v", updated, err)
	}
}

func TestUploadImage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, _ := f.publishedCamp(t)

	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	for x := 0; x < 800; x++ {
		img.Set(x, x%600, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	url, err := f.svc.UploadImage(ctx, c.ID, f.hostID, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "https://cdn.campy.test/camps/"+c.ID.String()) {
		t.Fatalf("unexpected url %s", url)
	}
	if len(f.storage.files) != 2 {
		t.Fatalf("expected original and thumbnail, got %d files", len(f.storage.files))
	}
	stored, _ := f.repo.GetByID(ctx, c.ID)
	if len(stored.Images) != 1 || stored.Images[0] != url {
		t.Fatalf("image not attached: %v", stored.Images)
	}

	if _, err := f.svc.UploadImage(ctx, c.ID, f.hostID, strings.NewReader("not an image")); err == nil {
		t.Fatal("expected rejection of non-image upload")
	}
}

func TestArchive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, _ := f.publishedCamp(t)

	archived, err := f.svc.Archive(ctx, c.ID, f.hostID)
	if err != nil || archived.Status != StatusArchived {
		t.Fatalf("unexpected %v %v", archived, err)
	}
	if _, err := f.svc.Archive(ctx, c.ID, f.hostID); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := f.svc.GetDetail(ctx, c.ID, uuid.Nil); !errors.Is(err, ErrCampNotFound) {
		t.Fatalf("archived camp should be hidden, got %v", err)
	}
}
