package types

import (
	"strings"

	"github.com/arthur-debert/modelconv/pkg/errors"
)

// DefaultArtifactType is the Maven type assumed when none is given
const DefaultArtifactType = "jar"

// ArtifactID is a Maven style coordinate shared by both model families.
// The feature model writes it as an mvn id (g:a[:type[:classifier]]:v),
// the provisioning model as an mvn path (g/a/v[/type[/classifier]]).
type ArtifactID struct {
	GroupID    string
	ArtifactID string
	Version    string
	Classifier string
	Type       string
}

// TypeOrDefault returns the type, falling back to jar
func (id ArtifactID) TypeOrDefault() string {
	if id.Type == "" {
		return DefaultArtifactType
	}
	return id.Type
}

// SameIdentity compares everything but the version
func (id ArtifactID) SameIdentity(other ArtifactID) bool {
	return id.GroupID == other.GroupID &&
		id.ArtifactID == other.ArtifactID &&
		id.Classifier == other.Classifier &&
		id.TypeOrDefault() == other.TypeOrDefault()
}

// WithVersion returns a copy carrying another version
func (id ArtifactID) WithVersion(version string) ArtifactID {
	id.Version = version
	return id
}

// ParseMvnID parses g:a:v, g:a:type:v or g:a:type:classifier:v
func ParseMvnID(s string) (ArtifactID, error) {
	parts := strings.Split(s, ":")
	for _, p := range parts {
		if p == "" {
			return ArtifactID{}, errors.Newf(errors.ErrInvalidInput, "invalid artifact id %q", s)
		}
	}
	switch len(parts) {
	case 3:
		return ArtifactID{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}, nil
	case 4:
		return ArtifactID{GroupID: parts[0], ArtifactID: parts[1], Type: parts[2], Version: parts[3]}, nil
	case 5:
		return ArtifactID{GroupID: parts[0], ArtifactID: parts[1], Type: parts[2], Classifier: parts[3], Version: parts[4]}, nil
	default:
		return ArtifactID{}, errors.Newf(errors.ErrInvalidInput, "invalid artifact id %q", s)
	}
}

// MvnID renders the colon separated form
func (id ArtifactID) MvnID() string {
	var b strings.Builder
	b.WriteString(id.GroupID)
	b.WriteByte(':')
	b.WriteString(id.ArtifactID)
	if id.Classifier != "" {
		b.WriteByte(':')
		b.WriteString(id.TypeOrDefault())
		b.WriteByte(':')
		b.WriteString(id.Classifier)
	} else if id.TypeOrDefault() != DefaultArtifactType {
		b.WriteByte(':')
		b.WriteString(id.Type)
	}
	b.WriteByte(':')
	b.WriteString(id.Version)
	return b.String()
}

// ParseMvnPath parses g/a/v[/type[/classifier]], optionally prefixed with mvn:
func ParseMvnPath(s string) (ArtifactID, error) {
	trimmed := strings.TrimPrefix(s, "mvn:")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 3 || len(parts) > 5 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return ArtifactID{}, errors.Newf(errors.ErrInvalidInput, "invalid artifact coordinate %q", s)
	}
	id := ArtifactID{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}
	if len(parts) > 3 {
		id.Type = parts[3]
	}
	if len(parts) > 4 {
		id.Classifier = parts[4]
	}
	return id, nil
}

// MvnPath renders the slash separated form used by the provisioning model
func (id ArtifactID) MvnPath() string {
	var b strings.Builder
	b.WriteString(id.GroupID)
	b.WriteByte('/')
	b.WriteString(id.ArtifactID)
	b.WriteByte('/')
	b.WriteString(id.Version)
	if id.Classifier != "" {
		b.WriteByte('/')
		b.WriteString(id.TypeOrDefault())
		b.WriteByte('/')
		b.WriteString(id.Classifier)
	} else if id.TypeOrDefault() != DefaultArtifactType {
		b.WriteByte('/')
		b.WriteString(id.Type)
	}
	return b.String()
}

// String returns the mvn id
func (id ArtifactID) String() string {
	return id.MvnID()
}
