/*
Copyright 2024 Orderstack Authors.

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

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderstack/saga/config"
)

func TestCacheSetGetDelete(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	config.MockConfig(&config.Configuration{
		DataSource: config.DataSourceConfig{Dns: "postgres://localhost:5432/saga"},
		Redis:      config.RedisConfig{Dns: mr.Addr()},
	})

	c, err := NewCache()
	require.NoError(t, err)

	ctx := context.Background()
	err = c.Set(ctx, "payment:order_1:txn_1", true, 5*time.Minute)
	assert.NoError(t, err)

	var exists bool
	err = c.Get(ctx, "payment:order_1:txn_1", &exists)
	assert.NoError(t, err)
	assert.True(t, exists)

	err = c.Delete(ctx, "payment:order_1:txn_1")
	assert.NoError(t, err)
}

func TestCacheGetMissIsNotAnError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c, err := newRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)

	var exists bool
	err = c.Get(context.Background(), "payment:unknown:unknown", &exists)
	assert.NoError(t, err)
	assert.False(t, exists)
}
