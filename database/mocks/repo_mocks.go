/*
Copyright 2025 LodgeTix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package mocks

import (
	"context"
	"time"

	"github.com/lodgetix/reconcile/model"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Registration methods

func (m *MockDataSource) RecordRegistration(ctx context.Context, reg *model.CanonicalRegistration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockDataSource) GetRegistration(ctx context.Context, id string) (*model.CanonicalRegistration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CanonicalRegistration), args.Error(1)
}

func (m *MockDataSource) GetRegistrationByPaymentRef(ctx context.Context, refs []string) (*model.CanonicalRegistration, error) {
	args := m.Called(ctx, refs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CanonicalRegistration), args.Error(1)
}

func (m *MockDataSource) GetRegistrationByAmountAndTime(ctx context.Context, amount float64, from, to time.Time) (*model.CanonicalRegistration, error) {
	args := m.Called(ctx, amount, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CanonicalRegistration), args.Error(1)
}

// Match-run methods

func (m *MockDataSource) RecordMatchRun(ctx context.Context, run *model.MatchRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockDataSource) UpdateMatchRunStatus(ctx context.Context, id string, status string, matched, unmatched, valid int) error {
	args := m.Called(ctx, id, status, matched, unmatched, valid)
	return args.Error(0)
}

func (m *MockDataSource) GetMatchRun(ctx context.Context, id string) (*model.MatchRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MatchRun), args.Error(1)
}
