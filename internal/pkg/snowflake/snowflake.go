// Copyright 2024 udonggeum
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package snowflake

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/ecodeclub/ekit/syncx"
)

// AppID 区分不同业务的ID序列
type AppID uint

const (
	AppOrder AppID = iota
	AppPayment
	AppRefund
)

const (
	maxNode uint = 31
	maxApp  uint = 31
)

var (
	ErrExceedNode = errors.New("node超出限制")
	ErrExceedApp  = errors.New("app超出限制")
	ErrUnknownApp = errors.New("未知的app")
)

type Generator interface {
	Generate(appid AppID) (ID, error)
}

// MultiAppGenerator 为每个业务分配独立的snowflake节点
type MultiAppGenerator struct {
	nodes syncx.Map[AppID, *snowflake.Node]
}

func NewMultiAppGenerator(nodeID uint, apps uint) (*MultiAppGenerator, error) {
	if nodeID > maxNode {
		return nil, fmt.Errorf("%w", ErrExceedNode)
	}
	if apps > maxApp+1 {
		return nil, fmt.Errorf("%w", ErrExceedApp)
	}
	g := &MultiAppGenerator{}
	for i := 0; i < int(apps); i++ {
		nid := (i << 5) | int(nodeID)
		n, err := snowflake.NewNode(int64(nid))
		if err != nil {
			return nil, err
		}
		g.nodes.Store(AppID(i), n)
	}
	return g, nil
}

type ID int64

func (c *MultiAppGenerator) Generate(appid AppID) (ID, error) {
	n, ok := c.nodes.Load(appid)
	if !ok {
		return 0, fmt.Errorf("%w", ErrUnknownApp)
	}
	return ID(n.Generate().Int64()), nil
}

func (i ID) Int64() int64 {
	return int64(i)
}

func (i ID) String() string {
	return fmt.Sprintf("%d", int64(i))
}
