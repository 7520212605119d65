package converter_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/prisme-transactions/internal/config"
	"github.com/ginjaninja78/prisme-transactions/internal/converter"
	"github.com/ginjaninja78/prisme-transactions/internal/converter/mocks"
	"github.com/ginjaninja78/prisme-transactions/internal/types"
	"github.com/ginjaninja78/prisme-transactions/internal/validation"
	"github.com/ginjaninja78/prisme-transactions/pkg/utils"
)

var fixedNow = time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

type workspace struct {
	main *config.MainConfig
}

func newWorkspace(t *testing.T, continueOnError bool) workspace {
	t.Helper()
	root := t.TempDir()
	main := &config.MainConfig{
		InputDir:         filepath.Join(root, "input"),
		OutputDir:        filepath.Join(root, "output"),
		InputArchiveDir:  filepath.Join(root, "input_archive"),
		OutputArchiveDir: filepath.Join(root, "output_archive"),
		FileNameFormat:   "{profile}_{format}_{timestamp}.txt",
		MaxConcurrency:   2,
		ContinueOnError:  continueOnError,
	}
	for _, dir := range []string{main.InputDir, main.OutputDir} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	return workspace{main: main}
}

func (w workspace) input(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(w.main.InputDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (w workspace) outputs(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(w.main.OutputDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func mockProfile() *config.ProfileConfig {
	return &config.ProfileConfig{
		Code:                 "udb",
		Format:               config.FormatG68,
		FileMatchingPatterns: []string{"udb_*.csv"},
		CSVSettings:          config.CSVSettings{Delimiter: ";", HeaderRows: 1, DataStartRow: 2},
		ColumnMapping:        map[string]string{"cpr": "modtager"},
		TransformationRules: []config.TransformationRule{
			{Field: "modtager", Actions: []config.TransformationAction{{Type: "pad_zeros_to_length", Value: "10"}}},
		},
	}
}

func newMockEncoder(t *testing.T) *mocks.MockEncoder {
	ctrl := gomock.NewController(t)
	enc := mocks.NewMockEncoder(ctrl)
	enc.EXPECT().Format().Return(config.FormatG68).AnyTimes()
	enc.EXPECT().Schema().Return(validation.Schema{
		Fields: []validation.FieldRule{
			{Name: "modtager", DataType: validation.TypeDigits, MaxLength: 10, Required: true},
		},
		WarnUnknown: true,
	}).AnyTimes()
	return enc
}

func run(w workspace, path string, enc converter.Encoder, opts ...converter.Option) converter.Result {
	opts = append([]converter.Option{
		converter.WithLogger(zerolog.Nop()),
		converter.WithClock(func() time.Time { return fixedNow }),
		converter.WithEncoderFactory(func(*config.ProfileConfig) (converter.Encoder, error) { return enc, nil }),
	}, opts...)
	return converter.New(path, mockProfile(), w.main, opts...).Run(context.Background())
}

func recordFor(row types.Row) (converter.Record, error) {
	return converter.Record{Text: "R" + row.Get("modtager"), Lines: 1, AmountOre: 10000}, nil
}

func TestConverter_Run(t *testing.T) {
	w := newWorkspace(t, false)
	path := w.input(t, "udb_1.csv", "cpr;navn\n101011234;Hans\n0202021234;Grete\n")

	enc := newMockEncoder(t)
	enc.EXPECT().Encode(gomock.Any()).DoAndReturn(recordFor).Times(2)

	result := run(w, path, enc)
	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, "udb", result.Profile)
	assert.Equal(t, config.FormatG68, result.Format)

	wantName := "udb_g68_20240115_143022.txt"
	assert.Equal(t, filepath.Join(w.main.OutputDir, wantName), result.OutputFile)
	data, err := os.ReadFile(result.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, "R0101011234\r\nR0202021234", string(data))

	assert.Equal(t, 2, result.Stats.RowsRead)
	assert.Equal(t, 2, result.Stats.RowsEncoded)
	assert.Equal(t, 2, result.Stats.Lines)
	assert.Equal(t, 0, result.Stats.RowsSkipped)
	assert.Equal(t, 2, result.Stats.ValidationWarnings, "navn is not a schema field")
	assert.Equal(t, int64(20000), result.Stats.Total.Amount())
	assert.Equal(t, time.Duration(0), result.Stats.ProcessingTime)
	assert.Empty(t, result.Problems)

	assert.NoFileExists(t, path)
	assert.FileExists(t, filepath.Join(w.main.InputArchiveDir, "udb_1.csv"))
	assert.FileExists(t, filepath.Join(w.main.OutputArchiveDir, wantName))
}

func TestConverter_Run_ValidationFailure(t *testing.T) {
	w := newWorkspace(t, false)
	path := w.input(t, "udb_1.csv", "cpr\n0101011234\nabc\n")

	// Encode must not be called.
	enc := newMockEncoder(t)

	result := run(w, path, enc)
	assert.False(t, result.Success)
	assert.EqualError(t, result.Error, "validation failed with 1 errors")
	assert.Equal(t, 1, result.Stats.ValidationErrors)

	require.Len(t, result.Problems, 2)
	assert.Equal(t, utils.ErrorTypeValidation, result.Problems[0].ErrorType)
	assert.Equal(t, 3, result.Problems[0].RowNumber)
	assert.Equal(t, "modtager", result.Problems[0].FieldName)
	assert.Equal(t, "0000000abc", result.Problems[0].FieldValue)
	assert.Equal(t, "udb_1.csv", result.Problems[1].FileName)

	assert.FileExists(t, path, "failed input stays in place")
	assert.Empty(t, w.outputs(t))
}

func TestConverter_Run_ContinueOnError(t *testing.T) {
	w := newWorkspace(t, true)
	path := w.input(t, "udb_1.csv", "cpr\n0101011234\nabc\n0303031234\n")

	enc := newMockEncoder(t)
	enc.EXPECT().Encode(gomock.Any()).DoAndReturn(recordFor).Times(2)

	result := run(w, path, enc)
	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Stats.RowsRead)
	assert.Equal(t, 2, result.Stats.RowsEncoded)
	assert.Equal(t, 1, result.Stats.RowsSkipped)
	require.Len(t, result.Problems, 1)
	assert.Equal(t, 3, result.Problems[0].RowNumber)

	data, err := os.ReadFile(result.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, "R0101011234\r\nR0303031234", string(data))
}

func TestConverter_Run_EncodeError(t *testing.T) {
	boom := errors.New("boom")

	t.Run("stops", func(t *testing.T) {
		w := newWorkspace(t, false)
		path := w.input(t, "udb_1.csv", "cpr\n0101011234\n0202021234\n")

		enc := newMockEncoder(t)
		enc.EXPECT().Encode(gomock.Any()).Return(converter.Record{}, boom)

		result := run(w, path, enc)
		assert.False(t, result.Success)
		assert.ErrorIs(t, result.Error, boom)
		assert.EqualError(t, result.Error, "row 2: boom")
		require.Len(t, result.Problems, 1)
		assert.Equal(t, utils.ErrorTypeEncoding, result.Problems[0].ErrorType)
		assert.Empty(t, w.outputs(t))
	})

	t.Run("skips", func(t *testing.T) {
		w := newWorkspace(t, true)
		path := w.input(t, "udb_1.csv", "cpr\n0101011234\n0202021234\n")

		enc := newMockEncoder(t)
		gomock.InOrder(
			enc.EXPECT().Encode(gomock.Any()).Return(converter.Record{}, boom),
			enc.EXPECT().Encode(gomock.Any()).DoAndReturn(recordFor),
		)

		result := run(w, path, enc)
		require.NoError(t, result.Error)
		assert.Equal(t, 1, result.Stats.RowsSkipped)
		assert.Equal(t, int64(10000), result.Stats.Total.Amount())
		require.Len(t, result.Problems, 1)
	})

	t.Run("nothing left", func(t *testing.T) {
		w := newWorkspace(t, true)
		path := w.input(t, "udb_1.csv", "cpr\n0101011234\n")

		enc := newMockEncoder(t)
		enc.EXPECT().Encode(gomock.Any()).Return(converter.Record{}, boom)

		result := run(w, path, enc)
		assert.EqualError(t, result.Error, "no records to write")
		assert.Empty(t, w.outputs(t))
	})
}

func TestConverter_Run_DryRun(t *testing.T) {
	w := newWorkspace(t, false)
	path := w.input(t, "udb_1.csv", "cpr\n0101011234\n")

	enc := newMockEncoder(t)
	enc.EXPECT().Encode(gomock.Any()).DoAndReturn(recordFor)

	result := run(w, path, enc, converter.WithDryRun(true))
	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Empty(t, result.OutputFile)
	assert.Equal(t, 1, result.Stats.RowsEncoded)
	assert.Empty(t, w.outputs(t))
	assert.FileExists(t, path)
}

func TestConverter_Run_Failures(t *testing.T) {
	w := newWorkspace(t, false)

	factoryErr := errors.New("no settings")
	path := w.input(t, "udb_1.csv", "cpr\n0101011234\n")
	result := converter.New(path, mockProfile(), w.main,
		converter.WithLogger(zerolog.Nop()),
		converter.WithEncoderFactory(func(*config.ProfileConfig) (converter.Encoder, error) { return nil, factoryErr }),
	).Run(context.Background())
	assert.ErrorIs(t, result.Error, factoryErr)
	assert.ErrorContains(t, result.Error, "failed to create g68 encoder")

	result = run(w, filepath.Join(w.main.InputDir, "missing.csv"), newMockEncoder(t))
	assert.ErrorContains(t, result.Error, "failed to read input")
	require.Len(t, result.Problems, 1)
	assert.Equal(t, utils.ErrorTypeRead, result.Problems[0].ErrorType)

	result = run(w, w.input(t, "udb_1.json", "{}"), newMockEncoder(t))
	assert.ErrorContains(t, result.Error, "unsupported input file type")
}

const g68Input = "transaktionstype;modtagertype;modtager;beloeb;betalingsdato;bogfoeringsdato;tekst\n" +
	"tvungen_destination;CVR;12345678;50;03-05-2021;2021-05-01;kort\n"

const g68Output = "000G6800001101&020000&0300&07000000000000000000&0800000005000&09+&1011&1100000012345678" +
	"&1220210503&16202105010000000001&40kort"

func g68Profile() *config.ProfileConfig {
	return &config.ProfileConfig{
		Code:                 "kort",
		Format:               config.FormatG68,
		FileMatchingPatterns: []string{"kort_*.csv"},
		CSVSettings:          config.CSVSettings{Delimiter: ";", HeaderRows: 1, DataStartRow: 2},
	}
}

func TestConverter_Run_G68(t *testing.T) {
	w := newWorkspace(t, false)
	path := w.input(t, "kort_1.csv", g68Input)

	result := converter.New(path, g68Profile(), w.main,
		converter.WithLogger(zerolog.Nop()),
		converter.WithClock(func() time.Time { return fixedNow }),
	).Run(context.Background())
	require.NoError(t, result.Error)
	assert.Empty(t, result.Problems)

	data, err := os.ReadFile(result.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, g68Output, string(data))
	assert.Equal(t, int64(5000), result.Stats.Total.Amount())
	assert.Equal(t, "DKK", result.Stats.Total.Currency().Code)
}

func TestMapRows(t *testing.T) {
	table := &types.Table{
		Headers: []string{"CPR", "Modtager", "Beløb"},
		Rows: []types.Row{
			{Number: 2, Fields: map[string]string{"CPR": "", "Modtager": "0101011234", "Beløb": "10"}},
			{Number: 3, Fields: map[string]string{"CPR": "0202021234", "Modtager": "0303031234", "Beløb": ""}},
		},
	}
	profile := &config.ProfileConfig{
		ColumnMapping: map[string]string{"CPR": "modtager", "Modtager": "modtager", "Beløb": "beloeb"},
		StaticFields: []config.StaticField{
			{Field: "modtagertype", Value: "cpr"},
			{Field: "beloeb", Value: "0"},
		},
	}

	rows := converter.MapRows(table, profile)
	require.Len(t, rows, 2)
	assert.Equal(t, types.Row{Number: 2, Fields: map[string]string{
		"modtager": "0101011234", "beloeb": "10", "modtagertype": "cpr",
	}}, rows[0])
	assert.Equal(t, types.Row{Number: 3, Fields: map[string]string{
		"modtager": "0202021234", "beloeb": "0", "modtagertype": "cpr",
	}}, rows[1])
}

func TestPlanJobs(t *testing.T) {
	profiles := map[string]*config.ProfileConfig{
		"a": {Code: "a", FileMatchingPatterns: []string{"a_*.csv"}},
		"b": {Code: "b", FileMatchingPatterns: []string{"b_*.csv", "*.xlsx"}},
	}
	files := []string{"in/a_1.csv", "in/b_1.csv", "in/c.csv", "in/a_2.xlsx"}

	jobs := converter.PlanJobs(files, profiles, "")
	require.Len(t, jobs, 4)
	assert.Equal(t, "a", jobs[0].Profile.Code)
	assert.Equal(t, "b", jobs[1].Profile.Code)
	assert.Nil(t, jobs[2].Profile)
	assert.Equal(t, "b", jobs[3].Profile.Code)

	jobs = converter.PlanJobs(files, profiles, "b")
	require.Len(t, jobs, 2)
	assert.Equal(t, "in/b_1.csv", jobs[0].InputPath)
	assert.Equal(t, "in/a_2.xlsx", jobs[1].InputPath)
}

func TestProcessFiles(t *testing.T) {
	w := newWorkspace(t, false)
	profile := g68Profile()
	jobs := []converter.Job{
		{InputPath: w.input(t, "kort_1.csv", g68Input), Profile: profile},
		{InputPath: w.input(t, "ukendt.csv", g68Input)},
		{InputPath: w.input(t, "kort_2.csv", "tekst\n\n"), Profile: profile},
		{InputPath: w.input(t, "kort_3.csv", g68Input), Profile: profile},
	}
	w.main.FileNameFormat = "{profile}_{uuid}.txt"

	results := converter.ProcessFiles(context.Background(), jobs, w.main, converter.WithLogger(zerolog.Nop()))
	require.Len(t, results, len(jobs))
	for i, r := range results {
		assert.Equal(t, jobs[i].InputPath, r.FilePath)
	}

	assert.True(t, results[0].Success)
	assert.ErrorIs(t, results[1].Error, converter.ErrNoProfile)
	assert.False(t, results[2].Success)
	assert.True(t, results[3].Success)
	assert.Len(t, w.outputs(t), 2)

	for _, i := range []int{0, 3} {
		data, err := os.ReadFile(results[i].OutputFile)
		require.NoError(t, err)
		assert.Equal(t, g68Output, string(data), "each file gets its own line counter")
	}
}

func TestProcessFiles_Cancelled(t *testing.T) {
	w := newWorkspace(t, false)
	w.main.MaxConcurrency = 1
	jobs := []converter.Job{
		{InputPath: w.input(t, "kort_1.csv", g68Input), Profile: g68Profile()},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := converter.ProcessFiles(ctx, jobs, w.main, converter.WithLogger(zerolog.Nop()))
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Error, context.Canceled)
	assert.False(t, results[0].Success)
	assert.Empty(t, w.outputs(t))
}
