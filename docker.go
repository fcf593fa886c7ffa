package bionic

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/cenkalti/backoff/v4"
	"github.com/compose-spec/compose-go/v2/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/rs/zerolog"
	"github.com/tassa-yoniso-manasi-karoto/dockerutil"
)

const (
	defaultProjectName   = "konlpy"
	defaultContainerName = "konlpy-konlpy-1"
	serviceName          = "konlpy"
	healthCheckPath      = "/health"
	serviceCheckInterval = 500 * time.Millisecond
	maxServiceCheckDelay = 5 * time.Second
	maxServiceWaitTime   = 300 * time.Second // first run loads the JVM and Okt dictionaries

	// image tag used when building the service image locally
	localImage = "go-bionic-konlpy:latest"

	portPlaceholder = "__KONLPY_SERVICE_PORT__"
)

var (
	//go:embed service/*
	serviceFiles embed.FS

	//go:embed Dockerfile
	dockerfile []byte

	//go:embed docker_requirements.txt
	requirements []byte

	// Default settings
	DefaultQueryTimeout   = 30 * time.Second
	DefaultDockerLogLevel = zerolog.TraceLevel

	// Logger for this package
	Logger = zerolog.Nop()

	errServiceNotReady = errors.New("service not ready")
)

// EnableDebugLogging enables debug logging for the package
func EnableDebugLogging() {
	Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
}

// SetLogger replaces the package logger
func SetLogger(l zerolog.Logger) {
	Logger = l
}

// Manager handles the Docker lifecycle of the KoNLPy service and implements
// Analyzer on top of it.
type Manager struct {
	docker                   *dockerutil.DockerManager
	logger                   *dockerutil.ContainerLogConsumer
	client                   *Client
	projectName              string
	containerName            string
	image                    string
	serviceURL               string
	servicePort              int
	QueryTimeout             time.Duration
	analyzeOptions           AnalyzeOptions
	serviceReady             bool
	downloadProgressCallback func(current, total int64, status string)
	mu                       sync.RWMutex
}

var _ Analyzer = (*Manager)(nil)

// ManagerOption defines function signature for options to configure Manager
type ManagerOption func(*Manager)

// WithQueryTimeout sets a custom query timeout
func WithQueryTimeout(timeout time.Duration) ManagerOption {
	return func(pm *Manager) {
		pm.QueryTimeout = timeout
	}
}

// WithProjectName sets a custom project name for multiple instances
func WithProjectName(name string) ManagerOption {
	return func(pm *Manager) {
		pm.projectName = name
		pm.containerName = name + "-" + serviceName + "-1"
	}
}

// WithContainerName overrides the default container name
func WithContainerName(name string) ManagerOption {
	return func(pm *Manager) {
		pm.containerName = name
	}
}

// WithImage runs a prebuilt image instead of building one from the embedded
// Dockerfile. The image must provide python, konlpy and a JVM.
func WithImage(image string) ManagerOption {
	return func(pm *Manager) {
		pm.image = image
	}
}

// WithAnalyzeOptions overrides normalization and stemming
func WithAnalyzeOptions(opts AnalyzeOptions) ManagerOption {
	return func(pm *Manager) {
		pm.analyzeOptions = opts
	}
}

// WithDownloadProgressCallback sets a callback for download progress during image pull
func WithDownloadProgressCallback(cb func(current, total int64, status string)) ManagerOption {
	return func(pm *Manager) {
		pm.downloadProgressCallback = cb
	}
}

// ptr returns a pointer to the given string value
func ptr(s string) *string {
	return &s
}

// buildComposeProject creates the compose project definition for the service.
// Without a prebuilt image, the image is built from buildDir.
func buildComposeProject(projectName, image, buildDir, dataDir string, port int) *types.Project {
	svc := types.ServiceConfig{
		Name:       serviceName,
		Image:      image,
		StdinOpen:  true,
		Tty:        true,
		WorkingDir: "/workspace",
		Environment: types.MappingWithEquals{
			"KONLPY_DATA_DIR": ptr("/workspace/konlpy-data"),
		},
		Volumes: []types.ServiceVolumeConfig{{
			Type:   types.VolumeTypeBind,
			Source: dataDir,
			Target: "/workspace",
		}},
		Ports: []types.ServicePortConfig{{
			Target:    uint32(port),
			Published: fmt.Sprintf("%d", port),
			Protocol:  "tcp",
		}},
	}
	if image == "" {
		svc.Image = localImage
		svc.Build = &types.BuildConfig{
			Context:    buildDir,
			Dockerfile: "Dockerfile",
		}
	}
	return &types.Project{
		Name:     projectName,
		Services: types.Services{serviceName: svc},
	}
}

// NewManager creates a new KoNLPy manager instance. A missing or unreachable
// Docker daemon is reported as ErrAnalyzerUnavailable.
func NewManager(ctx context.Context, opts ...ManagerOption) (*Manager, error) {
	dockerutil.SetLogOutput(dockerutil.LogToStdout)

	manager := &Manager{
		projectName:    defaultProjectName,
		containerName:  defaultContainerName,
		QueryTimeout:   DefaultQueryTimeout,
		analyzeOptions: DefaultAnalyzeOptions,
	}

	for _, opt := range opts {
		opt(manager)
	}

	dataDir := filepath.Join(xdg.ConfigHome, manager.projectName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	buildDir := ""
	if manager.image == "" {
		dir, err := manager.writeBuildContext()
		if err != nil {
			return nil, err
		}
		buildDir = dir
	}

	// Allocate a free port
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return nil, fmt.Errorf("failed to allocate port: %w", err)
	}
	manager.servicePort = listener.Addr().(*net.TCPAddr).Port
	listener.Close() // Release the port for later use

	Logger.Info().Int("port", manager.servicePort).Msg("Allocated port for KoNLPy service")

	project := buildComposeProject(manager.projectName, manager.image, buildDir, dataDir, manager.servicePort)

	logConfig := dockerutil.LogConfig{
		Prefix:      manager.projectName,
		ShowService: true,
		ShowType:    true,
		LogLevel:    DefaultDockerLogLevel,
		InitMessage: "KoNLPy service listening",
	}

	logger := dockerutil.NewContainerLogConsumer(logConfig)

	cfg := dockerutil.Config{
		ProjectName:      manager.projectName,
		Project:          project,
		RequiredServices: []string{serviceName},
		LogConsumer:      logger,
		Timeout: dockerutil.Timeout{
			Create:   30 * time.Minute,
			Recreate: 60 * time.Minute,
			Start:    30 * time.Minute,
		},
		OnPullProgress: manager.downloadProgressCallback,
	}

	dockerManager, err := dockerutil.NewDockerManager(ctx, cfg)
	if err != nil {
		return nil, unavailable("docker",
			"install Docker and make sure the daemon is running",
			fmt.Errorf("failed to create Docker manager: %w", err))
	}

	manager.docker = dockerManager
	manager.logger = logger
	manager.serviceURL = fmt.Sprintf("http://localhost:%d", manager.servicePort)
	manager.client = NewClient(manager.serviceURL, manager.QueryTimeout)

	return manager, nil
}

// writeBuildContext writes the Dockerfile and requirements where dockerutil
// looks for the project files
func (pm *Manager) writeBuildContext() (string, error) {
	configDir, err := dockerutil.GetConfigDir(pm.projectName)
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	files := map[string][]byte{
		"Dockerfile":              dockerfile,
		"docker_requirements.txt": requirements,
	}
	for name, content := range files {
		target := filepath.Join(configDir, name)
		if err := os.WriteFile(target, content, 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", name, err)
		}
		Logger.Debug().Str("path", target).Msg("Build context file written")
	}
	return configDir, nil
}

// PullImage pre-pulls the configured prebuilt image with progress tracking
func (pm *Manager) PullImage(ctx context.Context) error {
	if pm.image == "" {
		return nil
	}
	opts := dockerutil.DefaultPullOptions()
	if pm.downloadProgressCallback != nil {
		opts.OnProgress = pm.downloadProgressCallback
	}
	return dockerutil.PullImage(ctx, pm.image, opts)
}

// Init initializes the docker service and starts the Python server
func (pm *Manager) Init(ctx context.Context) error {
	if err := pm.docker.Init(); err != nil {
		return unavailable("docker", "check that the Docker daemon is running",
			fmt.Errorf("failed to initialize docker: %w", err))
	}

	if err := pm.startService(ctx); err != nil {
		return fmt.Errorf("failed to start KoNLPy service: %w", err)
	}

	return nil
}

// InitRecreate removes existing containers then builds and starts new ones
func (pm *Manager) InitRecreate(ctx context.Context, noCache bool) error {
	recreate := pm.docker.InitRecreate
	if noCache {
		recreate = pm.docker.InitRecreateNoCache
	}
	if err := recreate(); err != nil {
		return unavailable("docker", "check that the Docker daemon is running",
			fmt.Errorf("failed to recreate containers: %w", err))
	}

	if err := pm.startService(ctx); err != nil {
		return fmt.Errorf("failed to start KoNLPy service: %w", err)
	}

	return nil
}

// startService copies the service files and starts the Python server
func (pm *Manager) startService(ctx context.Context) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	Logger.Debug().Msg("Starting service...")

	dockerClient, err := pm.docker.GetClient()
	if err != nil {
		return fmt.Errorf("failed to get Docker client: %w", err)
	}

	if err := pm.copyServiceFiles(ctx, dockerClient); err != nil {
		return fmt.Errorf("failed to copy service files: %w", err)
	}
	Logger.Debug().Msg("Service files copied successfully")

	if pm.isServiceRunning(ctx) {
		pm.serviceReady = true
		Logger.Debug().Msg("Service is already running")
		return nil
	}

	// Start the service in a new bash session to avoid the interactive Python REPL
	startCmd := []string{
		"/bin/bash", "-c",
		"exec python -u /workspace/service/server.py",
	}

	execConfig := container.ExecOptions{
		Cmd:          startCmd,
		AttachStdout: false,
		AttachStderr: false,
		Detach:       true,
		Tty:          false,
		WorkingDir:   "/workspace",
	}

	exec, err := dockerClient.ContainerExecCreate(ctx, pm.containerName, execConfig)
	if err != nil {
		return fmt.Errorf("failed to create service exec: %w", err)
	}

	if err := dockerClient.ContainerExecStart(ctx, exec.ID, container.ExecStartOptions{
		Detach: true,
		Tty:    false,
	}); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	Logger.Debug().Msg("Python service exec started")

	if err := pm.waitForService(ctx); err != nil {
		return fmt.Errorf("service failed to start: %w", err)
	}

	pm.serviceReady = true
	return nil
}

// renderServerScript returns the embedded server with its port filled in
func renderServerScript(port int) (string, error) {
	content, err := serviceFiles.ReadFile("service/server.py")
	if err != nil {
		return "", fmt.Errorf("failed to read server.py: %w", err)
	}

	script := strings.ReplaceAll(string(content), portPlaceholder, fmt.Sprintf("%d", port))
	if strings.Contains(script, portPlaceholder) {
		return "", fmt.Errorf("failed to replace port placeholder in server.py")
	}
	return script, nil
}

// copyServiceFiles copies the embedded service files into the container
func (pm *Manager) copyServiceFiles(ctx context.Context, dockerClient *client.Client) error {
	script, err := renderServerScript(pm.servicePort)
	if err != nil {
		return err
	}

	mkdirCmd := []string{"mkdir", "-p", "/workspace/service"}
	if _, err := pm.execCommand(ctx, dockerClient, mkdirCmd); err != nil {
		return fmt.Errorf("failed to create service directory: %w", err)
	}

	writeCmd := []string{
		fmt.Sprintf("cat > /workspace/service/server.py << 'EOF'\n%s\nEOF", script),
	}
	if _, err := pm.execCommand(ctx, dockerClient, writeCmd); err != nil {
		return fmt.Errorf("failed to write server.py: %w", err)
	}

	return nil
}

// execCommand executes a command in the container and returns the output
func (pm *Manager) execCommand(ctx context.Context, dockerClient *client.Client, cmd []string) ([]byte, error) {
	bashCmd := append([]string{"/bin/bash", "-c"}, strings.Join(cmd, " "))

	Logger.Trace().Strs("command", bashCmd).Msg("Executing command")

	execConfig := container.ExecOptions{
		Cmd:          bashCmd,
		AttachStdout: true,
		AttachStderr: true,
		Tty:          false,
		WorkingDir:   "/workspace",
	}

	exec, err := dockerClient.ContainerExecCreate(ctx, pm.containerName, execConfig)
	if err != nil {
		return nil, err
	}

	resp, err := dockerClient.ContainerExecAttach(ctx, exec.ID, container.ExecStartOptions{})
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	output, err := io.ReadAll(resp.Reader)
	if err != nil {
		return nil, err
	}

	Logger.Trace().Str("output", string(output)).Msg("Command output")
	return output, nil
}

// isServiceRunning checks if the Python service is responding
func (pm *Manager) isServiceRunning(ctx context.Context) bool {
	ready, _ := pm.checkHealth(ctx)
	return ready
}

// checkHealth queries the health endpoint. A service that is up but could
// not start its JVM returns an ErrAnalyzerUnavailable error naming the JDK.
func (pm *Manager) checkHealth(ctx context.Context) (bool, error) {
	health, err := pm.client.Health(ctx)
	if err != nil {
		Logger.Trace().Err(err).Msg("Health check error")
		return false, nil
	}
	Logger.Trace().Interface("response", health).Msg("Health check response")
	if health.Status == "error" && !health.JVM {
		return false, unavailable("JDK", jdkHint, errors.New("KoNLPy service could not start the JVM"))
	}
	return health.Status == "ready", nil
}

// waitForService polls the health endpoint with exponential backoff until
// the service reports ready or maxServiceWaitTime elapses. A missing JVM
// stops the wait at once.
func (pm *Manager) waitForService(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = serviceCheckInterval
	b.MaxInterval = maxServiceCheckDelay
	b.MaxElapsedTime = maxServiceWaitTime

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		ready, err := pm.checkHealth(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if ready {
			return nil
		}
		return errServiceNotReady
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		Logger.Trace().Int("attempt", attempt).Dur("next", next).Msg("Service not ready yet")
	})
	if err != nil {
		var aerr *AnalyzerError
		if errors.As(err, &aerr) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("service failed to start within %v: %w", maxServiceWaitTime, err)
	}

	Logger.Debug().Int("attempts", attempt).Msg("Service is ready!")
	return nil
}

// IsReady returns whether the service is ready to accept requests
func (pm *Manager) IsReady() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.serviceReady
}

// Stop stops the docker service
func (pm *Manager) Stop(ctx context.Context) error {
	pm.mu.Lock()
	pm.serviceReady = false
	pm.mu.Unlock()

	return pm.docker.Stop()
}

// Close implements io.Closer
func (pm *Manager) Close() error {
	pm.mu.Lock()
	pm.serviceReady = false
	pm.mu.Unlock()

	pm.logger.Close()
	return pm.docker.Close()
}
