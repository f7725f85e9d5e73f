// Package paths centralizes the on-disk layout of a namespace: where a
// node's base path lives, where chain specs, keystores, and parachain
// artifacts are written, and where the persisted network handle goes.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ZombieJSONFile is the persisted network handle written on a
	// successful spawn (§6.3).
	ZombieJSONFile = "zombie.json"

	// KeystoreDirName is the subdirectory of a node's base path holding
	// its session keystore files.
	KeystoreDirName = "keystore"

	// DataDirName is the subdirectory of a node's base path holding its
	// chain database.
	DataDirName = "data"

	// LogFileName is the node's captured stdout/stderr log.
	LogFileName = "node.log"

	// PIDFileName is the native provider's PID tracking file.
	PIDFileName = "node.pid"
)

// NamespaceDir returns the root directory for a namespace under baseDir.
func NamespaceDir(baseDir, namespace string) string {
	return filepath.Join(baseDir, namespace)
}

// NodeDir returns a node's base path within a namespace.
func NodeDir(baseDir, namespace, nodeName string) string {
	return filepath.Join(NamespaceDir(baseDir, namespace), "nodes", nodeName)
}

// KeystoreDir returns the directory session keys are written to for a node.
func KeystoreDir(baseDir, namespace, nodeName string) string {
	return filepath.Join(NodeDir(baseDir, namespace, nodeName), KeystoreDirName)
}

// DataDir returns a node's chain database directory.
func DataDir(baseDir, namespace, nodeName string) string {
	return filepath.Join(NodeDir(baseDir, namespace, nodeName), DataDirName)
}

// LogFile returns the path a node's captured output is appended to.
func LogFile(baseDir, namespace, nodeName string) string {
	return filepath.Join(NodeDir(baseDir, namespace, nodeName), LogFileName)
}

// PIDFile returns the native provider's PID-tracking file for a node.
func PIDFile(baseDir, namespace, nodeName string) string {
	return filepath.Join(NodeDir(baseDir, namespace, nodeName), PIDFileName)
}

// ChainSpecPlainPath returns the plain (pre-raw) chain spec path for a
// chain within a namespace.
func ChainSpecPlainPath(baseDir, namespace, chainName string) string {
	return filepath.Join(NamespaceDir(baseDir, namespace), fmt.Sprintf("%s.plain.json", chainName))
}

// ChainSpecRawPath returns the raw chain spec path used to launch nodes.
func ChainSpecRawPath(baseDir, namespace, chainName string) string {
	return filepath.Join(NamespaceDir(baseDir, namespace), fmt.Sprintf("%s.json", chainName))
}

// ParaArtifactWASMPath returns the genesis WASM artifact path for a
// parachain's unique id within a namespace.
func ParaArtifactWASMPath(baseDir, namespace, uniqueID string) string {
	return filepath.Join(NamespaceDir(baseDir, namespace), fmt.Sprintf("%s.wasm", uniqueID))
}

// ParaArtifactStatePath returns the genesis state artifact path for a
// parachain's unique id within a namespace.
func ParaArtifactStatePath(baseDir, namespace, uniqueID string) string {
	return filepath.Join(NamespaceDir(baseDir, namespace), fmt.Sprintf("%s.state", uniqueID))
}

// ZombieJSONPath returns the persisted network handle path for a namespace.
func ZombieJSONPath(baseDir, namespace string) string {
	return filepath.Join(NamespaceDir(baseDir, namespace), ZombieJSONFile)
}

// DefaultBaseDir returns $TMPDIR (or /tmp) joined with "zombienet", used
// when GlobalSettings.BaseDir is left empty.
func DefaultBaseDir() string {
	dir := os.TempDir()
	return filepath.Join(dir, "zombienet")
}

// Path existence helpers over the real filesystem.

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
