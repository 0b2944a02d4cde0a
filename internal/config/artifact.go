package config

// ArtifactType names the kinds of filesystem outputs a command rule may
// declare. Only directories are captured today; the other kinds parse
// cleanly so existing hint files keep working as support lands.
type ArtifactType string

// Artifact types accepted in hint files.
const (
	ArtifactDirectory   ArtifactType = "directory"
	ArtifactFiles       ArtifactType = "files"
	ArtifactDockerImage ArtifactType = "docker_image"
)

// Artifact declares one filesystem output of a command.
type Artifact struct {
	// Type selects which of the remaining fields apply.
	Type ArtifactType `yaml:"type"`

	// Path is the directory to capture, relative to the working
	// directory (type: directory).
	Path string `yaml:"path"`

	// Paths lists files to capture (type: files, not yet captured).
	Paths []string `yaml:"paths"`

	// NameFrom and Position locate the image name inside the command
	// string (type: docker_image, not yet captured).
	NameFrom string `yaml:"name_from"`
	Position int    `yaml:"position"`
}
