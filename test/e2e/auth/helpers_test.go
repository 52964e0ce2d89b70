package auth_test

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/capmanage/capmanage/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for auth service end-to-end tests.
 * This includes container setup, mail capture from the container log, and
 * assertions.
 */

const (
	testImageName = "capmanage-auth-test:latest"

	accessTokenSecret  = "e2e-access-secret-0123456789abcdef"
	refreshTokenSecret = "e2e-refresh-secret-0123456789abcdef"

	adminEmail    = "admin@capmanage.test"
	adminPassword = "Admin123!"

	userPassword = "Sup3r-secret!"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Fprintln(os.Stdout, "skipping e2e tests in short mode")
		os.Exit(0)
	}
	if _, err := exec.LookPath("docker"); err != nil {
		fmt.Fprintln(os.Stdout, "skipping e2e tests: docker not found")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building Auth Service Docker image...")

	// Build the Docker image once before all tests
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Auth Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/auth/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// authContainer is a running auth service.
type authContainer struct {
	BaseURL   string
	Client    *authsdk.SDKClient
	container testcontainers.Container
}

// baseEnv is the environment every container starts with.
func baseEnv() map[string]string {
	return map[string]string{
		"ACCESS_TOKEN_SECRET":  accessTokenSecret,
		"REFRESH_TOKEN_SECRET": refreshTokenSecret,
		"DATABASE_URI":         "file:/data/auth.db",
		"AUTH_PEPPER_FILE":     "/data/pepper",
		"BCRYPT_SALT_ROUNDS":   "4",
		"ADMIN_EMAIL":          adminEmail,
		"ADMIN_NAME":           "Administrator",
		"ADMIN_PASSWORD":       adminPassword,
		"ENV":                  "test",
		"LOG_LEVEL":            "info",
		"LOG_FORMAT":           "json",
	}
}

// relaxedRateLimits raises the limits so tests making many rapid requests
// do not trip over them.
func relaxedRateLimits(env map[string]string) {
	for _, tier := range []string{"STRICT", "MODERATE", "LENIENT"} {
		env["RATELIMIT_"+tier+"_REQUESTS"] = "1000"
		env["RATELIMIT_"+tier+"_WINDOW_SEC"] = "60"
		env["RATELIMIT_"+tier+"_BURST"] = "1000"
	}
}

// setupAuthContainer starts the auth service with relaxed rate limits.
func setupAuthContainer(t *testing.T) *authContainer {
	t.Helper()
	env := baseEnv()
	relaxedRateLimits(env)
	return startContainer(t, env)
}

// setupAuthContainerWithDefaultRateLimits starts the auth service with
// DEFAULT rate limits. Only rate limiting tests should use it.
func setupAuthContainerWithDefaultRateLimits(t *testing.T) *authContainer {
	t.Helper()
	return startContainer(t, baseEnv())
}

func startContainer(t *testing.T, env map[string]string) *authContainer {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"5000/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/readyz").
			WithPort("5000/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "5000")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
	return &authContainer{
		BaseURL:   baseURL,
		Client:    authsdk.NewSDKClient(baseURL),
		container: container,
	}
}

var linkToken = regexp.MustCompile(`\?token=([A-Za-z0-9._~%-]+)`)

// mailToken returns the token of the newest email to `to` whose link points
// at path. Without SMTP the service writes outgoing mail to its log.
func (c *authContainer) mailToken(t *testing.T, to, path string) string {
	t.Helper()

	var token string
	require.Eventually(t, func() bool {
		token = c.findMailToken(t, to, path)
		return token != ""
	}, 10*time.Second, 200*time.Millisecond, "no %s email to %s", path, to)
	return token
}

func (c *authContainer) findMailToken(t *testing.T, to, path string) string {
	t.Helper()

	logs, err := c.container.Logs(context.Background())
	require.NoError(t, err)
	defer logs.Close()

	var token string
	scanner := bufio.NewScanner(logs)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		// Docker log frames may carry a binary header before the JSON.
		line := scanner.Text()
		if i := strings.IndexByte(line, '{'); i > 0 {
			line = line[i:]
		}

		var entry struct {
			To   string `json:"to"`
			Body string `json:"body"`
		}
		if json.Unmarshal([]byte(line), &entry) != nil || entry.To != to {
			continue
		}
		if !strings.Contains(entry.Body, path+"?token=") {
			continue
		}
		if m := linkToken.FindStringSubmatch(entry.Body); m != nil {
			tok, err := url.QueryUnescape(m[1])
			require.NoError(t, err)
			token = tok
		}
	}
	return token
}

// registerAndVerify registers a student and redeems the verification email.
func registerAndVerify(t *testing.T, c *authContainer, email string) *authsdk.UserResponse {
	t.Helper()
	ctx := t.Context()

	_, err := c.Client.Register(ctx, authsdk.RegisterRequest{
		Name:     "Test Student",
		Email:    email,
		Password: userPassword,
	})
	require.NoError(t, err, "Register should succeed")

	user, err := c.Client.VerifyEmail(ctx, c.mailToken(t, email, "/verify-email"))
	require.NoError(t, err, "VerifyEmail should succeed")
	require.True(t, user.IsEmailVerified)
	return user
}

// assertAPIError checks err is an API error with the given status and reason.
func assertAPIError(t *testing.T, err error, want *authsdk.APIError) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, want)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, want.StatusCode, apiErr.StatusCode, "status for %s", want.Reason)
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *authsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
