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

package wire

import (
	"slices"
)

type Service string

const (
	ServiceCrypto        Service = "proto.CryptoService"
	ServiceFile          Service = "proto.FileService"
	ServiceSmartContract Service = "proto.SmartContractService"
	ServiceConsensus     Service = "proto.ConsensusService"
	ServiceToken         Service = "proto.TokenService"
	ServiceSchedule      Service = "proto.ScheduleService"
	ServiceNetwork       Service = "proto.NetworkService"
	ServiceFreeze        Service = "proto.FreezeService"
)

// MethodKind tells whether a method accepts a Transaction or a Query
type MethodKind uint8

const (
	MethodKindTransaction MethodKind = 1
	MethodKindQuery       MethodKind = 2
)

var serviceMethods = map[Service]map[string]MethodKind{
	ServiceCrypto: {
		"createAccount":          MethodKindTransaction,
		"updateAccount":          MethodKindTransaction,
		"cryptoTransfer":         MethodKindTransaction,
		"cryptoDelete":           MethodKindTransaction,
		"approveAllowances":      MethodKindTransaction,
		"deleteAllowances":       MethodKindTransaction,
		"getAccountRecords":      MethodKindQuery,
		"cryptoGetBalance":       MethodKindQuery,
		"getAccountInfo":         MethodKindQuery,
		"getTransactionReceipts": MethodKindQuery,
		"getTxRecordByTxID":      MethodKindQuery,
	},
	ServiceFile: {
		"createFile":     MethodKindTransaction,
		"updateFile":     MethodKindTransaction,
		"deleteFile":     MethodKindTransaction,
		"appendContent":  MethodKindTransaction,
		"getFileContent": MethodKindQuery,
		"getFileInfo":    MethodKindQuery,
	},
	ServiceSmartContract: {
		"createContract":          MethodKindTransaction,
		"updateContract":          MethodKindTransaction,
		"contractCallMethod":      MethodKindTransaction,
		"deleteContract":          MethodKindTransaction,
		"contractCallLocalMethod": MethodKindQuery,
		"getContractInfo":         MethodKindQuery,
		"ContractGetBytecode":     MethodKindQuery,
	},
	ServiceConsensus: {
		"createTopic":   MethodKindTransaction,
		"updateTopic":   MethodKindTransaction,
		"deleteTopic":   MethodKindTransaction,
		"submitMessage": MethodKindTransaction,
		"getTopicInfo":  MethodKindQuery,
	},
	ServiceToken: {
		"createToken":      MethodKindTransaction,
		"updateToken":      MethodKindTransaction,
		"mintToken":        MethodKindTransaction,
		"burnToken":        MethodKindTransaction,
		"deleteToken":      MethodKindTransaction,
		"associateTokens":  MethodKindTransaction,
		"dissociateTokens": MethodKindTransaction,
		"getTokenInfo":     MethodKindQuery,
	},
	ServiceSchedule: {
		"createSchedule":  MethodKindTransaction,
		"signSchedule":    MethodKindTransaction,
		"deleteSchedule":  MethodKindTransaction,
		"getScheduleInfo": MethodKindQuery,
	},
	ServiceNetwork: {
		"uncheckedSubmit":  MethodKindTransaction,
		"getVersionInfo":   MethodKindQuery,
		"getExecutionTime": MethodKindQuery,
	},
	ServiceFreeze: {
		"freeze": MethodKindTransaction,
	},
}

// Services returns every known service
func Services() []Service {
	ret := make([]Service, 0, len(serviceMethods))
	for service := range serviceMethods {
		ret = append(ret, service)
	}
	slices.Sort(ret)
	return ret
}

// Methods returns the sorted method names of a service
func (s Service) Methods() []string {
	methods := serviceMethods[s]
	ret := make([]string, 0, len(methods))
	for name := range methods {
		ret = append(ret, name)
	}
	slices.Sort(ret)
	return ret
}

// LookupMethod returns the kind of the named method
func (s Service) LookupMethod(name string) (MethodKind, bool) {
	kind, ok := serviceMethods[s][name]
	return kind, ok
}

// FullMethodName returns the gRPC method path, e.g. /proto.CryptoService/cryptoTransfer
func (s Service) FullMethodName(name string) string {
	return "/" + string(s) + "/" + name
}
