package middleware

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCheck(t *testing.T) {
	require.NoError(t, ValidateCheck("deviation"))
	require.NoError(t, ValidateCheck("stress"))
	require.NoError(t, ValidateCheck("realtime"))
	require.NoError(t, ValidateCheck("Deviation")) // case-insensitive

	require.Error(t, ValidateCheck(""))
	require.Error(t, ValidateCheck("nmap"))
	require.Error(t, ValidateCheck("deviation; rm -rf /"))
}

func TestValidateURL(t *testing.T) {
	require.NoError(t, ValidateURL("http://engine:9000"))
	require.NoError(t, ValidateURL("https://scanner.local/api"))

	require.Error(t, ValidateURL(""))
	require.Error(t, ValidateURL("ftp://somewhere"))
	require.Error(t, ValidateURL("file:///etc/passwd"))
}

func TestValidateModelFile(t *testing.T) {
	require.NoError(t, ValidateModelFile(""))
	require.NoError(t, ValidateModelFile("scans/hall.ply"))
	require.NoError(t, ValidateModelFile("models/turbine.OBJ"))
	require.NoError(t, ValidateModelFile("models/site.e57"))
	require.NoError(t, ValidateModelFile("models/asset.glb"))

	require.Error(t, ValidateModelFile("models/asset.exe"))
	require.Error(t, ValidateModelFile("models/noext"))
	require.Error(t, ValidateModelFile("../secrets.ply"))
}

func TestValidatePath(t *testing.T) {
	require.NoError(t, ValidatePath(""))
	require.NoError(t, ValidatePath("scans/hall.ply"))

	require.Error(t, ValidatePath("../../etc/passwd"))
	require.Error(t, ValidatePath("/etc/shadow"))
	require.Error(t, ValidatePath("scan.ply; rm -rf /"))
	require.Error(t, ValidatePath("scan$(id).ply"))
	require.Error(t, ValidatePath("a|b.ply"))
}

func TestSanitizeString(t *testing.T) {
	require.Equal(t, "hello", SanitizeString("hello\x00"))
	require.Equal(t, "a\tb", SanitizeString(" a\tb "))
	require.Equal(t, "clean", SanitizeString("clean\x07"))
}

func TestValidateTenantID(t *testing.T) {
	require.NoError(t, ValidateTenantID("site-a"))
	require.NoError(t, ValidateTenantID("plant_01"))

	require.Error(t, ValidateTenantID(""))
	require.Error(t, ValidateTenantID("site a"))
	require.Error(t, ValidateTenantID("site/../b"))
}

func TestValidateValidationID(t *testing.T) {
	require.NoError(t, ValidateValidationID("123e4567-e89b-12d3-a456-426614174000-deviation"))

	require.Error(t, ValidateValidationID(""))
	require.Error(t, ValidateValidationID("not-a-uuid"))
	require.Error(t, ValidateValidationID("123e4567-e89b-12d3-a456-426614174000"))
}

func TestValidateLimitAndDays(t *testing.T) {
	require.Equal(t, 20, ValidateLimit(0))
	require.Equal(t, 20, ValidateLimit(-5))
	require.Equal(t, 100, ValidateLimit(1000))
	require.Equal(t, 33, ValidateLimit(33))

	require.Equal(t, 7, ValidateDays(0))
	require.Equal(t, 365, ValidateDays(9999))
	require.Equal(t, 30, ValidateDays(30))
}
