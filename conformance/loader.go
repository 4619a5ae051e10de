package conformance

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// TestPath is the bundled scenario directory, relative to this package.
const TestPath = "testdata"

// LoadedTest represents a test with its source file path
type LoadedTest struct {
	File  string
	Suite *TestSuite
	Test  TestCase
}

// LoadAll loads every .yaml file under root, which may also be a single
// file. Files are visited in lexical order.
func LoadAll(root string) ([]LoadedTest, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, "scenario path")
	}
	if !info.IsDir() {
		return LoadFile(root, filepath.Base(root))
	}

	var loaded []LoadedTest
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		tests, err := LoadFile(path, rel)
		if err != nil {
			return err
		}
		loaded = append(loaded, tests...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

// LoadFile parses one scenario file. name is recorded as each test's File.
func LoadFile(path, name string) ([]LoadedTest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var suite TestSuite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, errors.Wrapf(err, "parse %s", name)
	}
	if suite.Name == "" {
		suite.Name = name
	}
	tests := make([]LoadedTest, 0, len(suite.Tests))
	for _, tc := range suite.Tests {
		tests = append(tests, LoadedTest{File: name, Suite: &suite, Test: tc})
	}
	return tests, nil
}
