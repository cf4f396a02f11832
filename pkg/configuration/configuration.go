package configuration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/go-jsonnet"
)

// Configuration of the diskio export server.
type Configuration struct {
	// Logging level understood by logrus ("debug", "info", ...).
	LogLevel string `json:"logLevel"`
	// Reject all writes with a write protection error.
	ReadOnly bool `json:"readOnly"`
	// Erase block size reported to file system drivers, in sectors.
	// Zero keeps the default.
	EraseBlockSizeSectors uint32 `json:"eraseBlockSizeSectors"`
	// Source of file timestamps: empty for the fixed default, "system"
	// for the wall clock, or an RFC 3339 time.
	Timestamp string `json:"timestamp"`

	Drives []DriveConfiguration `json:"drives"`

	Ftp               *FtpConfiguration `json:"ftp"`
	HttpListenAddress string            `json:"httpListenAddress"`
}

// DriveConfiguration binds a logical drive number to a medium.
type DriveConfiguration struct {
	Drive uint8 `json:"drive"`
	// Name under which the drive is exported, without extension.
	Name            string `json:"name"`
	SectorSizeBytes uint32 `json:"sectorSizeBytes"`

	// Exactly one of the following must be set.
	Image  *ImageConfiguration  `json:"image"`
	Memory *MemoryConfiguration `json:"memory"`
}

type ImageConfiguration struct {
	Path string `json:"path"`
	// Create or grow the image to this size when non-zero.
	SizeBytes int64 `json:"sizeBytes"`
}

type MemoryConfiguration struct {
	SizeBytes int64 `json:"sizeBytes"`
}

type FtpConfiguration struct {
	ListenAddress string `json:"listenAddress"`
	PublicHost    string `json:"publicHost"`
	// Anonymous access is allowed when Username is empty.
	Username string `json:"username"`
	Password string `json:"password"`
}

// UnmarshalConfigurationFromFile reads a Jsonnet file, evaluates it and
// unmarshals the output into a Configuration. A path of "-" reads from
// stdin.
func UnmarshalConfigurationFromFile(path string, configuration *Configuration) error {
	var jsonnetInput []byte
	var err error
	if path == "-" {
		jsonnetInput, err = io.ReadAll(os.Stdin)
	} else {
		jsonnetInput, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read file contents: %w", err)
	}
	return UnmarshalConfiguration(path, string(jsonnetInput), os.Environ(), configuration)
}

// UnmarshalConfiguration evaluates a Jsonnet snippet. The environment
// variables in env are available through std.extVar().
func UnmarshalConfiguration(filename, snippet string, env []string, configuration *Configuration) error {
	vm := jsonnet.MakeVM()
	for _, e := range env {
		parts := strings.SplitN(e, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid environment variable: %#v", e)
		}
		vm.ExtVar(parts[0], parts[1])
	}

	jsonnetOutput, err := vm.EvaluateAnonymousSnippet(filename, snippet)
	if err != nil {
		return fmt.Errorf("failed to evaluate configuration: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewBufferString(jsonnetOutput))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(configuration); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return configuration.Validate()
}

// Validate checks the relations between fields that JSON decoding
// cannot express.
func (c *Configuration) Validate() error {
	if len(c.Drives) == 0 {
		return errors.New("no drives configured")
	}
	drives := map[uint8]struct{}{}
	names := map[string]struct{}{}
	for i, d := range c.Drives {
		if _, ok := drives[d.Drive]; ok {
			return fmt.Errorf("drive %d configured more than once", d.Drive)
		}
		drives[d.Drive] = struct{}{}

		if d.Name == "" || strings.ContainsAny(d.Name, "/\\") {
			return fmt.Errorf("drives[%d]: invalid name %#v", i, d.Name)
		}
		if _, ok := names[d.Name]; ok {
			return fmt.Errorf("drives[%d]: name %#v used more than once", i, d.Name)
		}
		names[d.Name] = struct{}{}

		if s := d.SectorSizeBytes; s != 0 && (s < 512 || s&(s-1) != 0) {
			return fmt.Errorf("drives[%d]: sector size %d is not a power of two of at least 512", i, s)
		}
		if (d.Image == nil) == (d.Memory == nil) {
			return fmt.Errorf("drives[%d]: exactly one of image or memory must be set", i)
		}
		if d.Image != nil && d.Image.Path == "" {
			return fmt.Errorf("drives[%d]: image path not specified", i)
		}
		sectorSize := int64(d.SectorSizeBytes)
		if sectorSize == 0 {
			sectorSize = 512
		}
		if d.Memory != nil && d.Memory.SizeBytes < sectorSize {
			return fmt.Errorf("drives[%d]: memory size %d does not hold a %d byte sector", i, d.Memory.SizeBytes, sectorSize)
		}
	}
	return nil
}
