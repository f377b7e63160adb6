package attachment

import (
	"context"
	"testing"

	"sourcevia/internal/common/errs"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	attachments map[string]*Attachment
}

func newFakeRepo() *fakeRepo { return &fakeRepo{attachments: map[string]*Attachment{}} }

func (r *fakeRepo) Create(ctx context.Context, a *Attachment) error {
	copied := *a
	r.attachments[a.ID.Hex()] = &copied
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (*Attachment, error) {
	a, ok := r.attachments[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *a
	return &copied, nil
}

func (r *fakeRepo) FindByEntity(ctx context.Context, module permissions.Module, entityID string) ([]Attachment, error) {
	var out []Attachment
	for _, a := range r.attachments {
		if a.Module == module && a.EntityID == entityID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(r.attachments, id.Hex())
	return nil
}

var officer = permissions.Actor{ID: "officer-1", Role: permissions.RoleProcurementOfficer}

func newService(t *testing.T) (AttachmentService, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return NewAttachmentService(repo, permissions.NewEvaluator(permissions.Default)), repo
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService(t)

	cases := []struct {
		name  string
		input UploadInput
		kind  errs.Kind
	}{
		{"unknown module", UploadInput{Module: "widgets", EntityID: "e1", Filename: "a.pdf", Size: 10}, errs.KindValidation},
		{"missing entity", UploadInput{Module: permissions.ModuleVendors, Filename: "a.pdf", Size: 10}, errs.KindValidation},
		{"oversize", UploadInput{Module: permissions.ModuleVendors, EntityID: "e1", Filename: "a.pdf", Size: MaxUploadSize + 1}, errs.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), officer, tc.input)
			if !errs.Is(err, tc.kind) {
				t.Errorf("Register() = %v, want %s", err, tc.kind)
			}
		})
	}
}

func TestRegisterAllocatesStoredName(t *testing.T) {
	svc, _ := newService(t)

	a, err := svc.Register(context.Background(), officer, UploadInput{
		Module:   permissions.ModuleVendors,
		EntityID: "e1",
		Filename: "trade-license.pdf",
		Size:     1024,
		MimeType: "application/pdf",
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.StoredName == "" || a.StoredName == a.Filename {
		t.Errorf("stored name %q should be generated, not the original filename", a.StoredName)
	}
	if a.UploadedBy != officer.ID {
		t.Errorf("uploaded_by = %s, want %s", a.UploadedBy, officer.ID)
	}
}

func TestDeleteRequiresOwnershipOrController(t *testing.T) {
	svc, repo := newService(t)

	a, err := svc.Register(context.Background(), officer, UploadInput{
		Module:   permissions.ModuleVendors,
		EntityID: "e1",
		Filename: "trade-license.pdf",
		Size:     1024,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Commit(context.Background(), a); err != nil {
		t.Fatal(err)
	}

	other := permissions.Actor{ID: "officer-2", Role: permissions.RoleProcurementOfficer}
	if err := svc.Delete(context.Background(), other, a.ID.Hex()); !errs.Is(err, errs.KindAuthorization) {
		t.Errorf("Delete() by non-owner = %v, want authorization", err)
	}

	admin := permissions.Actor{ID: "admin-1", Role: permissions.RoleAdmin}
	if err := svc.Delete(context.Background(), admin, a.ID.Hex()); err != nil {
		t.Fatalf("Delete() by controller: %v", err)
	}
	if _, ok := repo.attachments[a.ID.Hex()]; ok {
		t.Error("attachment still present after delete")
	}
}
