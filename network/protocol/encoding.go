/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package protocol

import (
	"encoding/json"
	"fmt"
)

func (n NetworkProtocol) MarshalText() ([]byte, error) {
	return []byte(n.Code()), nil
}

func (n *NetworkProtocol) UnmarshalText(p []byte) error {
	*n = Parse(string(p))
	return nil
}

func (n NetworkProtocol) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Code())
}

func (n *NetworkProtocol) UnmarshalJSON(p []byte) error {
	var s string
	if err := json.Unmarshal(p, &s); err != nil {
		return err
	}
	*n = Parse(s)
	return nil
}

// MarshalYAML returns the plain code string so it renders as a YAML
// scalar (e.g. `protocol: tcp`) instead of the underlying uint8.
func (n NetworkProtocol) MarshalYAML() (interface{}, error) {
	return n.Code(), nil
}

func (n *NetworkProtocol) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*n = Parse(s)
	return nil
}

// ViperDecoderHook lets the config loader accept network protocols as
// plain strings ("tcp", "udp4", ...) wherever a NetworkProtocol field is
// embedded in a mapstructure-decoded config.
func ViperDecoderHook(from, to interface{}) (interface{}, error) {
	if s, ok := from.(string); ok {
		if _, ok = to.(NetworkProtocol); ok {
			return Parse(s), nil
		}
	}
	return from, fmt.Errorf("unsupported conversion")
}
