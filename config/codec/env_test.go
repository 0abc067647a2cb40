// Copyright 2025 The Rivaas Authors
// Copyright 2025 Company.info B.V.
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

//go:build !integration

package codec

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type EnvVarCodecTestSuite struct {
	suite.Suite
	codec EnvVarCodec
}

func TestEnvVarCodecTestSuite(t *testing.T) {
	suite.Run(t, new(EnvVarCodecTestSuite))
}

func (s *EnvVarCodecTestSuite) decode(data string) map[string]any {
	var v map[string]any
	s.Require().NoError(s.codec.Decode([]byte(data), &v))

	return v
}

func (s *EnvVarCodecTestSuite) TestDecode_Simple() {
	v := s.decode("LEVEL=debug\nFORMAT=console")
	s.Equal("debug", v["level"])
	s.Equal("console", v["format"])
}

func (s *EnvVarCodecTestSuite) TestDecode_UnderscoreKeepsKey() {
	v := s.decode("RECORD_ID=true")
	s.Equal(true, v["record_id"])
}

func (s *EnvVarCodecTestSuite) TestDecode_DoubleUnderscoreNests() {
	v := s.decode("SERVICE__NAME=api\nSERVICE__VERSION=1.2.0\nSAMPLING__INITIAL=100\nERRORS__STACK=TRUE")

	service, ok := v["service"].(map[string]any)
	s.Require().True(ok)
	s.Equal("api", service["name"])
	s.Equal("1.2.0", service["version"])

	sampling, ok := v["sampling"].(map[string]any)
	s.Require().True(ok)
	s.Equal(int64(100), sampling["initial"])

	errs, ok := v["errors"].(map[string]any)
	s.Require().True(ok)
	s.Equal(true, errs["stack"])
}

func (s *EnvVarCodecTestSuite) TestDecode_ScalarInference() {
	v := s.decode("A=42\nB=-7\nC=007\nD=1.5\nE=false\nF= padded \nG=a=b\nH=")
	s.Equal(int64(42), v["a"])
	s.Equal(int64(-7), v["b"])
	s.Equal("007", v["c"])
	s.Equal("1.5", v["d"])
	s.Equal(false, v["e"])
	s.Equal("padded", v["f"])
	s.Equal("a=b", v["g"])
	s.Equal("", v["h"])
}

func (s *EnvVarCodecTestSuite) TestDecode_ScalarReplacedByMap() {
	v := s.decode("SERVICE=plain\nSERVICE__NAME=api")
	service, ok := v["service"].(map[string]any)
	s.Require().True(ok)
	s.Equal("api", service["name"])
}

func (s *EnvVarCodecTestSuite) TestDecode_SkipsMalformed() {
	v := s.decode("NOEQUALS\n=value\n____=x\nLEVEL=warn")
	s.Equal(map[string]any{"level": "warn"}, v)
}

func (s *EnvVarCodecTestSuite) TestDecode_Empty() {
	s.Empty(s.decode(""))
}

func (s *EnvVarCodecTestSuite) TestDecode_WrongTarget() {
	var v map[string]string
	s.Error(s.codec.Decode([]byte("A=b"), &v))
}

func (s *EnvVarCodecTestSuite) TestEncode_Unsupported() {
	_, err := s.codec.Encode(map[string]any{})
	s.Error(err)
}
