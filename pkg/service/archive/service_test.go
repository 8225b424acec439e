package archive_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/litigio/tramita/pkg/domain/types"
	"github.com/litigio/tramita/pkg/service/archive"
	storagememory "github.com/litigio/tramita/pkg/storage/memory"
	"github.com/m-mizutani/gt"
)

func testPrefix(t *testing.T, tenant string) string {
	t.Helper()
	prefix, err := archive.DerivePrefix(tenant, "Maria Silva", "123.456.789-00", "Cobrança")
	gt.NoError(t, err).Required()
	return prefix
}

func TestService_UploadAndList(t *testing.T) {
	ctx := context.Background()
	store := storagememory.New()
	svc := archive.New(store)
	prefix := testPrefix(t, "Tenant")

	key, url, err := svc.Upload(ctx, prefix, types.FileCategoryEvidence, "recibo ação.pdf",
		strings.NewReader("fake pdf"), 8, "application/pdf")
	gt.NoError(t, err).Required()
	gt.Value(t, key).Equal(prefix + "PROVA_recibo acao.pdf")
	gt.String(t, url).NotEqual("")

	grouped, err := svc.List(ctx, prefix)
	gt.NoError(t, err).Required()

	entries := grouped[types.FileCategoryEvidence]
	gt.Array(t, entries).Length(1).Required()
	gt.Value(t, entries[0].Name).Equal("PROVA_recibo acao.pdf")
	gt.Number(t, entries[0].Size).Equal(int64(8))
	gt.String(t, entries[0].URL).NotEqual("")
}

func TestService_ListClassifiesByPrefix(t *testing.T) {
	ctx := context.Background()
	store := storagememory.New()
	svc := archive.New(store)
	prefix := testPrefix(t, "Tenant")

	files := map[string]types.FileCategory{
		"CONTRATO_honorarios.docx": types.FileCategoryContract,
		"PROCURACAO_maria.docx":    types.FileCategoryPowerOfAttorney,
		"PROVA_extrato.pdf":        types.FileCategoryEvidence,
		"DOCS_comprovante.pdf":     types.FileCategorySupportingDocs,
		"sem-prefixo.txt":          types.FileCategoryOther,
	}
	for name := range files {
		gt.NoError(t, store.Put(ctx, prefix+name, strings.NewReader("x"), 1, "text/plain")).Required()
	}

	grouped, err := svc.List(ctx, prefix)
	gt.NoError(t, err).Required()

	for name, category := range files {
		found := false
		for _, entry := range grouped[category] {
			if entry.Name == name {
				found = true
			}
		}
		gt.Bool(t, found).True()
	}
}

func TestService_ListIgnoresNestedPrefixes(t *testing.T) {
	ctx := context.Background()
	store := storagememory.New()
	svc := archive.New(store)
	prefix := testPrefix(t, "Tenant")

	gt.NoError(t, store.Put(ctx, prefix+"PROVA_a.pdf", strings.NewReader("x"), 1, "application/pdf")).Required()
	// Same client, different action title: must not leak into this listing
	other, err := archive.DerivePrefix("Tenant", "Maria Silva", "123.456.789-00", "Cobrança Extra")
	gt.NoError(t, err).Required()
	gt.NoError(t, store.Put(ctx, other+"PROVA_b.pdf", strings.NewReader("x"), 1, "application/pdf")).Required()

	grouped, err := svc.List(ctx, prefix)
	gt.NoError(t, err).Required()

	total := 0
	for _, entries := range grouped {
		total += len(entries)
	}
	gt.Number(t, total).Equal(1)
}

func TestService_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	store := storagememory.New()
	svc := archive.New(store)

	// Identical client and title in two tenants
	p1 := testPrefix(t, "Tenant Um")
	p2 := testPrefix(t, "Tenant Dois")

	_, _, err := svc.Upload(ctx, p1, types.FileCategoryEvidence, "doc.pdf", strings.NewReader("1"), 1, "application/pdf")
	gt.NoError(t, err).Required()
	_, _, err = svc.Upload(ctx, p2, types.FileCategoryEvidence, "doc.pdf", strings.NewReader("2"), 1, "application/pdf")
	gt.NoError(t, err).Required()

	grouped, err := svc.List(ctx, p1)
	gt.NoError(t, err).Required()

	for _, entries := range grouped {
		for _, entry := range entries {
			gt.Bool(t, strings.HasPrefix(p1+entry.Name, "Tenant Um/")).True()
		}
	}
	gt.Array(t, grouped[types.FileCategoryEvidence]).Length(1)
}

func TestService_DeleteRestrictedToUploadChannel(t *testing.T) {
	ctx := context.Background()
	store := storagememory.New()
	svc := archive.New(store)
	prefix := testPrefix(t, "Tenant")

	gt.NoError(t, store.Put(ctx, prefix+"PROVA_a.pdf", strings.NewReader("x"), 1, "application/pdf")).Required()
	gt.NoError(t, store.Put(ctx, prefix+"CONTRATO_b.docx", strings.NewReader("x"), 1, "application/msword")).Required()

	// Upload-channel file can be deleted
	gt.NoError(t, svc.Delete(ctx, prefix, "PROVA_a.pdf"))

	// System-generated document is refused
	err := svc.Delete(ctx, prefix, "CONTRATO_b.docx")
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, archive.ErrNotDeletable)).True()

	// No wildcard or nested delete
	err = svc.Delete(ctx, prefix, "../PROVA_a.pdf")
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, archive.ErrInvalidFilename)).True()
}
