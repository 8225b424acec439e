package types_test

import (
	"testing"

	"github.com/litigio/tramita/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestClassifyFilename(t *testing.T) {
	cases := map[string]types.FileCategory{
		"CONTRATO_honorarios.pdf":   types.FileCategoryContract,
		"PROCURACAO_assinada.pdf":   types.FileCategoryPowerOfAttorney,
		"DECLARACAO_residencia.pdf": types.FileCategoryDeclaration,
		"FICHA_cadastro.pdf":        types.FileCategoryForm,
		"DOCS_certidao.pdf":         types.FileCategorySupportingDocs,
		"PROVA_recibo.pdf":          types.FileCategoryEvidence,
		"PROTOCOLO_peticao.pdf":     types.FileCategoryFiling,
		// no recognized token lands in the fallback bucket
		"anotacoes.txt": types.FileCategoryOther,
		"":              types.FileCategoryOther,
	}

	for name, want := range cases {
		gt.Value(t, types.ClassifyFilename(name)).Equal(want)
	}
}

func TestFileCategoryDeletability(t *testing.T) {
	// system-generated documents are never user-deletable
	gt.Bool(t, types.FileCategoryContract.UserUploadable()).False()
	gt.Bool(t, types.FileCategoryPowerOfAttorney.UserUploadable()).False()
	gt.Bool(t, types.FileCategoryDeclaration.UserUploadable()).False()
	gt.Bool(t, types.FileCategoryForm.UserUploadable()).False()

	gt.Bool(t, types.FileCategorySupportingDocs.UserUploadable()).True()
	gt.Bool(t, types.FileCategoryEvidence.UserUploadable()).True()
	gt.Bool(t, types.FileCategoryFiling.UserUploadable()).True()
	gt.Bool(t, types.FileCategoryOther.UserUploadable()).True()
}

func TestFileCategoryPrefix(t *testing.T) {
	gt.Value(t, types.FileCategoryEvidence.Prefix()).Equal("PROVA_")
	gt.Value(t, types.FileCategoryOther.Prefix()).Equal("")
}

func TestParseFileCategory(t *testing.T) {
	category, err := types.ParseFileCategory("Provas")
	gt.NoError(t, err).Required()
	gt.Value(t, category).Equal(types.FileCategoryEvidence)

	_, err = types.ParseFileCategory("Segredos")
	gt.Error(t, err)
}
