// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package build

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catalogforge/catalogforge/pkg/plugins"
)

const sampleDesktopEntry = `[Desktop Entry]
Type=Application
Name=Sample App
Comment=A sample application
Icon=sample-app
Categories=Utility;
`

func TestTask_Run_FinishedWhenADesktopEntryMatches(t *testing.T) {
	reader := newFakeReader()
	reader.files["test-0.1-1.fc21.noarch.rpm"] = []string{"usr/share/applications/sample.desktop"}
	reader.contents["test-0.1-1.fc21.noarch.rpm"] = map[string]string{
		"usr/share/applications/sample.desktop": sampleDesktopEntry,
	}
	reader.name["test-0.1-1.fc21.noarch.rpm"] = "test"
	reader.arch["test-0.1-1.fc21.noarch.rpm"] = "noarch"

	loader := NewLoader(plugins.NewDesktopEntry())
	task := NewTask("test-0.1-1.fc21.noarch.rpm", reader, loader, DefaultConfig(), nil)
	task.Run(context.Background())

	require.Equal(t, Finished, task.State())
	require.Len(t, task.Apps(), 1)
	require.Equal(t, "Sample App", task.Apps()[0].Name())
	require.Contains(t, reader.closed, "test-0.1-1.fc21.noarch.rpm")
}

func TestTask_Run_IgnoredWhenNoFileMatchesAnyGlob(t *testing.T) {
	reader := newFakeReader()
	reader.files["test-0.1-1.fc21.noarch.rpm"] = []string{"usr/share/doc/README"}
	reader.name["test-0.1-1.fc21.noarch.rpm"] = "test"
	reader.arch["test-0.1-1.fc21.noarch.rpm"] = "noarch"

	loader := NewLoader(plugins.NewDesktopEntry())
	task := NewTask("test-0.1-1.fc21.noarch.rpm", reader, loader, DefaultConfig(), nil)
	task.Run(context.Background())

	require.Equal(t, Ignored, task.State())
	require.Equal(t, "test", task.Package().Name)
	require.Equal(t, "noarch", task.Package().Arch)
}

func TestTask_Run_FailsWhenOpenErrors(t *testing.T) {
	reader := newFakeReader()
	reader.openErr["broken.rpm"] = errAssertStub

	loader := NewLoader(plugins.NewDesktopEntry())
	task := NewTask("broken.rpm", reader, loader, DefaultConfig(), nil)
	task.Run(context.Background())

	require.Equal(t, Failed, task.State())
	require.Len(t, task.Apps(), 1)
	require.True(t, task.Apps()[0].HasVeto())
}

func TestTask_Run_FailsWhenEnsureErrors(t *testing.T) {
	reader := newFakeReader()
	reader.ensureErr["broken.rpm"] = errAssertStub

	loader := NewLoader(plugins.NewDesktopEntry())
	task := NewTask("broken.rpm", reader, loader, DefaultConfig(), nil)
	task.Run(context.Background())

	require.Equal(t, Failed, task.State())
}

func TestTask_Run_FailsWhenExplodeErrors(t *testing.T) {
	reader := newFakeReader()
	reader.files["broken.rpm"] = []string{"usr/share/applications/sample.desktop"}
	reader.explodeErr["broken.rpm"] = errAssertStub

	loader := NewLoader(plugins.NewDesktopEntry())
	task := NewTask("broken.rpm", reader, loader, DefaultConfig(), nil)
	task.Run(context.Background())

	require.Equal(t, Failed, task.State())
}

func TestTask_Run_ValidatesBuiltAppsAndVetoesMissingRequiredFields(t *testing.T) {
	reader := newFakeReader()
	reader.files["test.rpm"] = []string{"usr/share/applications/noname.desktop"}
	reader.contents["test.rpm"] = map[string]string{
		"usr/share/applications/noname.desktop": "[Desktop Entry]\nType=Application\nIcon=x\n",
	}

	loader := NewLoader(plugins.NewDesktopEntry())
	task := NewTask("test.rpm", reader, loader, DefaultConfig(), nil)
	task.Run(context.Background())

	require.Equal(t, Finished, task.State())
	require.Len(t, task.Apps(), 1)
	require.True(t, task.Apps()[0].HasVeto())
}
