package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/degustation_uploader/internal/model"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestCleanColumnName(t *testing.T) {
	tests := map[string]string{
		"Horaires d'ouvertures":   "horaires_d_ouvertures",
		"Nom de l'établissement":  "nom_de_l_etablissement",
		"  Code Postal  ":         "code_postal",
		"Téléphone (fixe)":        "telephone_fixe",
		"__déjà__vu__":            "deja__vu",
		"Année":                   "annee",
		"already_clean":           "already_clean",
		"ÀÉÎÕÜ ç":                 "aeiou_c",
		"Prix €":                  "prix",
		"snake_Case-and.dots":     "snake_case_and_dots",
		"Œuvre":                   "uvre",
		"":                        "",
	}

	for in, want := range tests {
		assert.Equal(t, want, CleanColumnName(in), in)
	}
}

func TestColumnMapping(t *testing.T) {
	m := ColumnMapping([]string{"Nom", "NOM", "€", "Ville"})

	require.Len(t, m, 4)
	assert.Equal(t, ColumnPair{Original: "Nom", Clean: "nom"}, m[0])
	assert.Equal(t, ColumnPair{Original: "NOM", Clean: "nom_2"}, m[1])
	assert.Equal(t, ColumnPair{Original: "€", Clean: "column_3"}, m[2])
	assert.Equal(t, ColumnPair{Original: "Ville", Clean: "ville"}, m[3])
}

func TestColumnMapping_SuffixCollision(t *testing.T) {
	m := ColumnMapping([]string{"A", "a", "a_2", "a 2"})

	require.Len(t, m, 4)
	assert.Equal(t, "a", m[0].Clean)
	assert.Equal(t, "a_2", m[1].Clean)
	assert.Equal(t, "a_2_2", m[2].Clean)
	assert.Equal(t, "a_2_3", m[3].Clean)

	seen := make(map[string]bool)
	for _, p := range m {
		assert.False(t, seen[p.Clean], p.Clean)
		seen[p.Clean] = true
	}
}

func TestMapping_WriteJSON_Unescaped(t *testing.T) {
	m := ColumnMapping([]string{"Prix & <taxes>"})
	path := filepath.Join(t.TempDir(), "column_mapping.json")

	require.NoError(t, m.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"Prix & <taxes>\": \"prix_taxes\"\n}\n", string(data))
}

func TestMapping_WriteJSON(t *testing.T) {
	m := ColumnMapping([]string{"Ville", "Département"})
	path := filepath.Join(t.TempDir(), "column_mapping.json")

	require.NoError(t, m.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"Ville\": \"ville\",\n  \"Département\": \"departement\"\n}\n", string(data))
}

func TestParseScheduleCell(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"bare string", "01/01/2022||31/12/2022||||", []string{"01/01/2022||31/12/2022||||"}},
		{"single quoted list", "['a||b', 'c']", []string{"a||b", "c"}},
		{"double quoted list", `["a", "l'été"]`, []string{"a", "l'été"}},
		{"escaped quote", `['l\'été', 'x\\y']`, []string{"l'été", `x\y`}},
		{"trailing comma", "['a',]", []string{"a"}},
		{"empty list", "[]", []string{}},
		{"spacing", "[ 'a' ,\n 'b' ]  ", []string{"a", "b"}},
		{"leading space", "  ['a']", []string{"a"}},
		{"hex escape", `['l\xe9t\xe9']`, []string{"lété"}},
		{"unicode escapes", `['caf\u00e9', '\U0001F377']`, []string{"café", "🍷"}},
		{"unknown escape", `['a\db']`, []string{`a\db`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScheduleCell(tt.cell)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseScheduleCell_Invalid(t *testing.T) {
	for _, cell := range []string{"[", "['a'", "['a' 'b']", "[None]", "['a'] tail", `['a\`, `['\xZZ']`, `['\u00e']`} {
		_, err := ParseScheduleCell(cell)
		assert.ErrorIs(t, err, ErrInvalidListLiteral, cell)
	}
}

func TestLoad(t *testing.T) {
	content := "\ufeffNom;Ville;Horaires d'ouvertures\n" +
		"Cave A;Lyon;\"['01/01/2022||31/12/2022||||', 'x']\"\n" +
		"Cave B;Paris\n" +
		"Cave C;Nantes;01/01/2022||31/12/2022||||;extra\n"
	path := writeTempFile(t, "degustations.csv", []byte(content))

	table, err := Load(path, DefaultSeparator)
	require.NoError(t, err)

	assert.Equal(t, []string{"Nom", "Ville", "Horaires d'ouvertures"}, table.Headers)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"Cave A", "Lyon", "['01/01/2022||31/12/2022||||', 'x']"}, table.Rows[0])
	assert.Equal(t, []string{"Cave B", "Paris", ""}, table.Rows[1])
	assert.Equal(t, []string{"Cave C", "Nantes", "01/01/2022||31/12/2022||||"}, table.Rows[2])
	assert.Equal(t, 2, table.Column("Horaires d'ouvertures"))
	assert.Equal(t, -1, table.Column("missing"))
}

func TestLoad_Windows1252(t *testing.T) {
	// "Année;Prix\n2022;3\n" with é encoded as 0xE9
	content := []byte{'A', 'n', 'n', 0xE9, 'e', ';', 'P', 'r', 'i', 'x', '\n', '2', '0', '2', '2', ';', '3', '\n'}
	path := writeTempFile(t, "latin.csv", content)

	table, err := Load(path, DefaultSeparator)
	require.NoError(t, err)
	assert.Equal(t, []string{"Année", "Prix"}, table.Headers)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), DefaultSeparator)
	assert.Error(t, err)

	path := writeTempFile(t, "empty.csv", nil)
	_, err = Load(path, DefaultSeparator)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestTable_RenameAndSetColumn(t *testing.T) {
	table := &Table{
		Headers: []string{"Nom", "Horaires d'ouvertures"},
		Rows:    [][]string{{"a", "x"}, {"b", "y"}},
	}

	table.Rename(ColumnMapping(table.Headers))
	assert.Equal(t, []string{"nom", "horaires_d_ouvertures"}, table.Headers)

	idx, err := table.SetColumn("horaires_traduits", []string{"[1]", ""})
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, []string{"a", "x", "[1]"}, table.Rows[0])
	assert.Equal(t, 2, table.Column("horaires_traduits"))

	_, err = table.SetColumn("short", []string{"only one"})
	assert.Error(t, err)
}

func TestTable_SetColumn_ReplacesExisting(t *testing.T) {
	table := &Table{
		Headers: []string{"nom", "horaires_traduits", "horaires_d_ouvertures"},
		Rows:    [][]string{{"a", "old", "x"}, {"b", "old", "y"}},
	}

	idx, err := table.SetColumn("horaires_traduits", []string{"[1]", ""})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, []string{"nom", "horaires_traduits", "horaires_d_ouvertures"}, table.Headers)
	assert.Equal(t, []string{"a", "[1]", "x"}, table.Rows[0])
	assert.Equal(t, []string{"b", "", "y"}, table.Rows[1])
}

func TestInferColumns(t *testing.T) {
	table := &Table{
		Headers: []string{"id", "note", "name", "zip", "empty", "mixed"},
		Rows: [][]string{
			{"1", "4,5", "Cave", "01000", "", "3"},
			{"2", "3", "Domaine", "69001", "", "3.5"},
			{"", "", "", "", "", "x"},
		},
	}

	assert.Equal(t, []model.Column{
		{Name: "id", Kind: model.ColumnInteger},
		{Name: "note", Kind: model.ColumnReal},
		{Name: "name", Kind: model.ColumnText},
		{Name: "zip", Kind: model.ColumnText},
		{Name: "empty", Kind: model.ColumnText},
		{Name: "mixed", Kind: model.ColumnText},
	}, InferColumns(table))
}

func TestColumn_Value(t *testing.T) {
	assert.Nil(t, model.Column{Kind: model.ColumnText}.Value(" "))
	assert.Equal(t, int64(42), model.Column{Kind: model.ColumnInteger}.Value("42"))
	assert.Equal(t, 4.5, model.Column{Kind: model.ColumnReal}.Value("4,5"))
	assert.Equal(t, "Cave", model.Column{Kind: model.ColumnText}.Value("Cave"))
}
