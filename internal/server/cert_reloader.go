package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"resumerank/internal/errors"
	"resumerank/internal/observability"

	"github.com/fsnotify/fsnotify"
)

// CertReloader keeps the server certificate current while the process runs.
// It watches the certificate and key files with fsnotify and swaps in the
// new key pair after a debounce window, so certificate rotation does not
// require a restart.
type CertReloader struct {
	mu sync.RWMutex

	certFile string
	keyFile  string

	current *tls.Certificate

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	om     *observability.ObservabilityManager
	logger *errors.Logger

	running bool
}

// NewCertReloader loads the initial key pair and prepares the watcher.
func NewCertReloader(certFile, keyFile string, debounceDelay time.Duration, om *observability.ObservabilityManager, logger *errors.Logger) (*CertReloader, error) {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	cr := &CertReloader{
		certFile:      certFile,
		keyFile:       keyFile,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1), // Buffered to prevent blocking
		om:            om,
		logger:        logger,
	}

	if err := cr.reload(); err != nil {
		return nil, fmt.Errorf("failed to load initial certificate: %w", err)
	}

	return cr, nil
}

// Start begins watching the certificate files for changes
func (cr *CertReloader) Start() error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.running {
		return fmt.Errorf("certificate reloader is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	cr.fsWatcher = watcher

	for _, file := range []string{cr.certFile, cr.keyFile} {
		if err := cr.addFileToWatcher(file); err != nil {
			if closeErr := watcher.Close(); closeErr != nil && cr.logger != nil {
				cr.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
			}
			return err
		}
	}

	cr.running = true
	go cr.watchLoop()

	if cr.logger != nil {
		cr.logger.Info("Certificate file watcher started",
			"cert_file", cr.certFile,
			"key_file", cr.keyFile,
			"debounce_delay", cr.debounceDelay)
	}

	return nil
}

// Stop stops the certificate file watcher
func (cr *CertReloader) Stop() error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if !cr.running {
		return nil
	}

	close(cr.stopChan)

	if cr.debounceTimer != nil {
		cr.debounceTimer.Stop()
	}

	if cr.fsWatcher != nil {
		if err := cr.fsWatcher.Close(); err != nil {
			if cr.logger != nil {
				cr.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	cr.running = false

	if cr.logger != nil {
		cr.logger.Info("Certificate file watcher stopped")
	}

	return nil
}

// GetCertificate returns the current certificate for use as
// tls.Config.GetCertificate.
func (cr *CertReloader) GetCertificate(_ *tls.ClientHelloInfo) (*tls.Certificate, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.current == nil {
		return nil, fmt.Errorf("no certificate loaded")
	}
	return cr.current, nil
}

// IsRunning returns whether the watcher is currently running
func (cr *CertReloader) IsRunning() bool {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.running
}

// reload loads the key pair from disk and swaps it in
func (cr *CertReloader) reload() error {
	cert, err := tls.LoadX509KeyPair(cr.certFile, cr.keyFile)
	if err != nil {
		return err
	}

	cr.mu.Lock()
	cr.current = &cert
	cr.mu.Unlock()

	return nil
}

// addFileToWatcher adds a file and its directory to the file system watcher
func (cr *CertReloader) addFileToWatcher(file string) error {
	if err := cr.fsWatcher.Add(file); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", file, err)
	}

	// Also watch the directory to catch atomic writes (rename operations)
	dir := filepath.Dir(file)
	if err := cr.fsWatcher.Add(dir); err != nil {
		if cr.logger != nil {
			cr.logger.Warn("Failed to watch directory for atomic writes",
				"directory", dir, "error", err)
		}
	}

	return nil
}

// watchLoop is the main event loop for file watching
func (cr *CertReloader) watchLoop() {
	for {
		select {
		case event, ok := <-cr.fsWatcher.Events:
			if !ok {
				return
			}

			if cr.shouldProcessEvent(event) {
				cr.scheduleReload()
			}

		case err, ok := <-cr.fsWatcher.Errors:
			if !ok {
				return
			}
			if cr.logger != nil {
				cr.logger.LogError(err, "File watcher error")
			}

		case <-cr.reloadChan:
			cr.handleReload()

		case <-cr.stopChan:
			return
		}
	}
}

// handleReload performs a debounced certificate reload
func (cr *CertReloader) handleReload() {
	err := cr.reload()
	if cr.om != nil {
		cr.om.GetMetrics().RecordCertReload(context.Background(), err == nil)
	}

	if err != nil {
		if cr.logger != nil {
			cr.logger.LogError(err, "Failed to reload TLS certificates",
				"cert_file", cr.certFile)
		}
		return
	}

	if cr.logger != nil {
		cr.logger.Info("TLS certificates reloaded successfully",
			"cert_file", cr.certFile)
	}
}

// shouldProcessEvent determines if a file system event should trigger a reload
func (cr *CertReloader) shouldProcessEvent(event fsnotify.Event) bool {
	isWatchedFile := false
	for _, file := range []string{cr.certFile, cr.keyFile} {
		if event.Name == file || filepath.Base(event.Name) == filepath.Base(file) {
			isWatchedFile = true
			break
		}
	}

	if !isWatchedFile {
		return false
	}

	// Process write, create, and rename events
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload schedules a debounced reload
func (cr *CertReloader) scheduleReload() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.debounceTimer != nil {
		cr.debounceTimer.Stop()
	}

	cr.debounceTimer = time.AfterFunc(cr.debounceDelay, func() {
		select {
		case cr.reloadChan <- struct{}{}:
		default:
			// Reload already scheduled
		}
	})
}

// certFilesReadable verifies the configured certificate files exist
func certFilesReadable(files ...string) error {
	for _, file := range files {
		if file == "" {
			continue
		}
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("certificate file not readable: %s: %w", file, err)
		}
	}
	return nil
}
