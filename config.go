// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hedera

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientConfig represents a client config file
type ClientConfig struct {
	Network                  NetworkConfig       `yaml:"network"`
	MirrorNetwork            MirrorNetworkConfig `yaml:"mirrorNetwork"`
	Operator                 *OperatorConfig     `yaml:"operator"`
	LedgerID                 string              `yaml:"ledgerId"`
	MaxAttempts              int                 `yaml:"maxAttempts"`
	MinBackoff               time.Duration       `yaml:"minBackoff"`
	MaxBackoff               time.Duration       `yaml:"maxBackoff"`
	NodeMinBackoff           time.Duration       `yaml:"nodeMinBackoff"`
	NodeMaxBackoff           time.Duration       `yaml:"nodeMaxBackoff"`
	MaxNodesPerTransaction   int                 `yaml:"maxNodesPerTransaction"`
	DefaultMaxTransactionFee *Hbar               `yaml:"defaultMaxTransactionFee"`
	DefaultMaxQueryPayment   *Hbar               `yaml:"defaultMaxQueryPayment"`
	AutoValidateChecksums    *bool               `yaml:"autoValidateChecksums"`
	TransportSecurity        *bool               `yaml:"transportSecurity"`
	VerifyCertificate        *bool               `yaml:"verifyCertificate"`
}

// NetworkConfig is either the name of a well-known network or a map of node
// addresses to node account ids
type NetworkConfig struct {
	Name  string
	Nodes map[string]string
}

func (n *NetworkConfig) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&n.Name)
	case yaml.MappingNode:
		return value.Decode(&n.Nodes)
	default:
		return fmt.Errorf("network: expected a name or a map of addresses, line %d", value.Line)
	}
}

// MirrorNetworkConfig is either the name of a well-known network or a list
// of mirror node addresses
type MirrorNetworkConfig struct {
	Name      string
	Addresses []string
}

func (m *MirrorNetworkConfig) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&m.Name)
	case yaml.SequenceNode:
		return value.Decode(&m.Addresses)
	default:
		return fmt.Errorf("mirrorNetwork: expected a name or a list of addresses, line %d", value.Line)
	}
}

type OperatorConfig struct {
	AccountID  string `yaml:"accountId"`
	PrivateKey string `yaml:"privateKey"`
}

func NewClientConfigFromFile(path string) (*ClientConfig, error) {
	dataFile, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer dataFile.Close()
	return NewClientConfigFromReader(dataFile)
}

func NewClientConfigFromReader(r io.Reader) (*ClientConfig, error) {
	c := &ClientConfig{}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}
