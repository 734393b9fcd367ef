package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVCF = "##fileformat=VCFv4.2\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
	"chr1\t100\t.\tAT\tTG\t.\tPASS\t.\n" +
	"chr1\t150\t.\tG\tA\t.\tPASS\t.\n" +
	"chr1\t400\t.\tC\tT\t.\tPASS\t.\n" +
	"chr2\t10\t.\tA\tACT\t.\tPASS\t.\n" +
	"chrUn\t5\t.\tG\tC\t.\t.\t.\n"

type fixture struct {
	dir    string
	genome string
	vcf    string
}

// newFixture writes a reference index and a VCF file into a fresh home
// directory so no user config leaks into the test.
func newFixture(t *testing.T, vcf string) fixture {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	f := fixture{
		dir:    dir,
		genome: filepath.Join(dir, "ref.fa"),
		vcf:    filepath.Join(dir, "calls.vcf"),
	}
	require.NoError(t, os.WriteFile(f.genome+".fai",
		[]byte("chr1\t1000\t6\t60\t61\nchr2\t800\t1030\t60\t61\n"), 0644))
	require.NoError(t, os.WriteFile(f.vcf, []byte(vcf), 0644))
	return f
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersion(t *testing.T) {
	newFixture(t, testVCF)
	code, out, _ := runCLI(t, "version")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "vcfindex version dev")
}

func TestUsageErrors(t *testing.T) {
	f := newFixture(t, testVCF)

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown command", args: []string{"frobnicate"}},
		{name: "unknown flag", args: []string{"stats", "--nope", f.vcf}},
		{name: "missing argument", args: []string{"count", "--genome", f.genome, f.vcf, "chr1"}},
		{name: "no genome", args: []string{"stats", f.vcf}},
		{name: "bad locus", args: []string{"query", "--genome", f.genome, f.vcf, "chr1-100"}},
		{name: "no loci", args: []string{"query", "--genome", f.genome, f.vcf}},
		{name: "bad interval", args: []string{"count", "--genome", f.genome, f.vcf, "chr1", "x", "10"}},
		{name: "bad log level", args: []string{"stats", "--genome", f.genome, f.vcf}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.name == "bad log level" {
				t.Setenv("VCFINDEX_LOG_LEVEL", "loud")
			}
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, ExitUsage, code, stderr)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t, testVCF)

	code, out, stderr := runCLI(t, "stats", "--genome", f.genome, f.vcf)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Regexp(t, `(?m)^records\s+3$`, out)
	assert.Regexp(t, `(?m)^filtered\s+2$`, out)
	assert.Regexp(t, `(?m)^skipped\s+0$`, out)
	assert.Regexp(t, `(?m)^header lines\s+1$`, out)
	assert.Regexp(t, `(?m)^unresolved\s+1$`, out)
	assert.Regexp(t, `(?m)^chr1\s+2$`, out)
	assert.NotRegexp(t, `(?m)^chr2\s`, out)

	code, out, stderr = runCLI(t, "stats", "--genome", f.genome, "--with-multibase", "--all", f.vcf)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Regexp(t, `(?m)^records\s+5$`, out)
	assert.Regexp(t, `(?m)^chr1\s+3$`, out)
	assert.Regexp(t, `(?m)^chr2\s+1$`, out)
}

func TestStats_PositionsBeyondInt32(t *testing.T) {
	f := newFixture(t, "chr1\t5\t.\tA\tC\t.\t.\t.\n"+
		"chr1\t3000000000\t.\tG\tT\t.\t.\t.\n"+
		"chrUn\t4000000000\t.\tG\tT\t.\t.\t.\n")

	code, out, stderr := runCLI(t, "stats", "--genome", f.genome, f.vcf)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Regexp(t, `(?m)^chr1\s+2$`, out)
	assert.Regexp(t, `(?m)^unresolved\s+1$`, out)

	code, out, stderr = runCLI(t, "count", "--genome", f.genome, f.vcf, "chr1", "1", "9223372036854775807")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "2\n", out)
}

func TestQuery(t *testing.T) {
	f := newFixture(t, testVCF)

	loci := filepath.Join(f.dir, "loci.txt")
	require.NoError(t, os.WriteFile(loci, []byte("# sorted\nchr1:400\n\nchr2:10\n"), 0644))

	code, out, stderr := runCLI(t, "query", "--genome", f.genome, "--loci", loci, f.vcf, "chr1:150", "chr1:151")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t,
		"chr1:150\tfound\t1\tchr1\t150\t.\tG\tA\t.\tPASS\t.\n"+
			"chr1:151\tmissing\t2\n"+
			"chr1:400\tfound\t2\tchr1\t400\t.\tC\tT\t.\tPASS\t.\n"+
			"chr2:10\tmissing\t3\n",
		out)
}

func TestQuery_MaxLinearFromEnv(t *testing.T) {
	f := newFixture(t, testVCF)
	t.Setenv("VCFINDEX_TRACKER_MAX_LINEAR", "0")

	code, out, stderr := runCLI(t, "query", "--genome", f.genome, f.vcf, "chr1:400", "chr1:150")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "chr1:400\tfound\t2")
	assert.Contains(t, out, "chr1:150\tfound\t1")
}

func TestCount(t *testing.T) {
	f := newFixture(t, testVCF)

	bed := filepath.Join(f.dir, "mask.bed")
	require.NoError(t, os.WriteFile(bed, []byte("track name=mask\nchr1\t149\t150\n"), 0644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "whole chromosome", args: []string{"chr1", "1", "1000"}, want: "2\n"},
		{name: "single position", args: []string{"chr1", "150", "150"}, want: "1\n"},
		{name: "inverted", args: []string{"chr1", "400", "150"}, want: "0\n"},
		{name: "unknown chromosome matches unresolved records", args: []string{"chrZ", "1", "1000"}, want: "1\n"},
		{name: "unknown chromosome outside unresolved positions", args: []string{"chrZ", "6", "1000"}, want: "0\n"},
		{name: "masked unknown chromosome", args: []string{"--mask", bed, "chrZ", "1", "10"}, want: "1\n"},
		{name: "masked", args: []string{"--mask", bed, "chr1", "1", "1000"}, want: "1\n"},
		{name: "masked outside interval", args: []string{"--mask", bed, "chr1", "300", "1000"}, want: "1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"count", "--genome", f.genome, f.vcf}, tt.args...)
			code, out, stderr := runCLI(t, args...)
			require.Equal(t, ExitSuccess, code, stderr)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSeparate(t *testing.T) {
	f := newFixture(t, testVCF)

	code, out, stderr := runCLI(t, "separate", "--genome", f.genome, f.vcf)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "##fileformat=VCFv4.2\n"+
		`##FILTER=<ID=separated,Description="Variant obtained by splitting a complex variant into multiple positions">`+"\n"+
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"+
		".\t5\t.\tG\tC\t.\t.\t.\n"+
		"chr1\t100\t.\tA\tT\t.\tPASS;separated\t.\n"+
		"chr1\t101\t.\tT\tG\t.\tPASS;separated\t.\n"+
		"chr1\t150\t.\tG\tA\t.\tPASS\t.\n"+
		"chr1\t400\t.\tC\tT\t.\tPASS\t.\n"+
		"chr2\t10\t.\tA\tACT\t.\tPASS\t.\n",
		out)
}

func TestSeparate_GzipOutput(t *testing.T) {
	f := newFixture(t, testVCF)
	outPath := filepath.Join(f.dir, "split.vcf.gz")

	code, _, stderr := runCLI(t, "separate", "--genome", f.genome, "-o", outPath, f.vcf)
	require.Equal(t, ExitSuccess, code, stderr)

	// The compressed output reads back as a VCF.
	code, out, stderr := runCLI(t, "stats", "--genome", f.genome, "--with-multibase", outPath)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Regexp(t, `(?m)^records\s+6$`, out)
	assert.Regexp(t, `(?m)^header lines\s+2$`, out)
}

func TestStrictAndLenientLoad(t *testing.T) {
	f := newFixture(t, testVCF+"chr1\tnot-a-number\t.\tA\tC\t.\t.\t.\n")

	code, _, stderr := runCLI(t, "stats", "--genome", f.genome, f.vcf)
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "line 8")

	code, out, stderr := runCLI(t, "stats", "--genome", f.genome, "--lenient", f.vcf)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Regexp(t, `(?m)^skipped\s+1$`, out)
	assert.Contains(t, stderr, "skipping malformed line")
}

func TestMissingFile(t *testing.T) {
	f := newFixture(t, testVCF)

	code, _, stderr := runCLI(t, "stats", "--genome", f.genome, filepath.Join(f.dir, "nope.vcf"))
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "Hint: Check that the file path is correct")
}

func TestConfig(t *testing.T) {
	f := newFixture(t, testVCF)

	code, out, stderr := runCLI(t, "config", "set", "genome", f.genome)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "Set genome = "+f.genome)
	assert.FileExists(t, filepath.Join(f.dir, ".vcfindex.yaml"))

	code, out, stderr = runCLI(t, "config", "get", "genome")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, f.genome+"\n", out)

	// The stored genome is used when --genome is omitted.
	code, out, stderr = runCLI(t, "stats", f.vcf)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Regexp(t, `(?m)^records\s+3$`, out)

	code, out, _ = runCLI(t, "config")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "genome: "+f.genome)

	code, _, _ = runCLI(t, "config", "set", "no.such.key", "1")
	assert.Equal(t, ExitUsage, code)
}

func TestExport(t *testing.T) {
	f := newFixture(t, testVCF)
	db := filepath.Join(f.dir, "out", "calls.duckdb")

	code, out, stderr := runCLI(t, "export", "--genome", f.genome, "--db", db, f.vcf)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "exported 3 records")

	code, out, stderr = runCLI(t, "export", "--genome", f.genome, "--db", db, f.vcf)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "up to date")

	code, out, stderr = runCLI(t, "export", "--genome", f.genome, "--db", db, "--force", "--with-multibase", f.vcf)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, out, "exported 5 records")

	code, _, _ = runCLI(t, "export", "--genome", f.genome, f.vcf)
	assert.Equal(t, ExitUsage, code)
}
