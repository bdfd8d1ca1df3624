// Package yaml loads image rewrite rules from YAML files using gopkg.in/yaml.v3.
package yaml

import (
	"errors"
	"io"
	"os"

	"github.com/fwojciec/imgswap"
	"gopkg.in/yaml.v3"
)

// RuleFile is the top-level layout of a rules file.
//
//	rules:
//	  - match: old/logo.png
//	    set:
//	      src: https://cdn.example.com/logo.png
//	      width: 120
//	    remove: [height]
type RuleFile struct {
	Rules []imgswap.Rule `yaml:"rules"`
}

// LoadRules decodes and validates the rules in r. Unknown keys are an
// error. An empty file yields no rules.
func LoadRules(r io.Reader) ([]imgswap.Rule, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f RuleFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, imgswap.Errorf(imgswap.EINVALID, "parse rules: %v", err)
	}

	for i := range f.Rules {
		if err := f.Rules[i].Validate(); err != nil {
			return nil, imgswap.Errorf(imgswap.ErrorCode(err), "rule %d: %s", i+1, imgswap.ErrorMessage(err))
		}
	}
	return f.Rules, nil
}

// LoadRulesFile reads the rules file at path.
func LoadRulesFile(path string) ([]imgswap.Rule, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, imgswap.Errorf(imgswap.ENOTFOUND, "rules file not found: %s", path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadRules(f)
}
