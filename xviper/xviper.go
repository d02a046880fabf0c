// Package xviper wraps viper with lazy loading and write-through
// persistence for lockbom's per-user configuration file.
package xviper

import (
	"crypto/sha256"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/lockbom/lockbom/common"
)

const (
	configstub  = `lockbom.yaml`
	identityKey = `instance.identity`
)

var (
	guidSteps = []int{4, 2, 2, 2, 6}

	pipeline chan command
	inited   sync.Once
)

type command func(config *config)

type config struct {
	viper    *viper.Viper
	location string
	loaded   bool
}

func (it *config) summon() {
	if it.loaded {
		return
	}
	it.location = filepath.Join(common.Home(), configstub)
	it.viper = viper.New()
	it.viper.SetConfigFile(it.location)
	it.viper.SetConfigType("yaml")
	if err := it.viper.ReadInConfig(); err != nil {
		common.Trace("No configuration at %q yet: %v", it.location, err)
	}
	it.loaded = true
}

func (it *config) save() {
	if _, err := common.EnsureDirectory(common.Home()); err != nil {
		common.Debug("Could not ensure home directory: %v", err)
		return
	}
	if err := it.viper.WriteConfigAs(it.location); err != nil {
		common.Debug("Could not persist configuration %q: %v", it.location, err)
	}
}

func runner(todo chan command) {
	state := &config{}
	for task := range todo {
		state.summon()
		task(state)
	}
}

func run(task command) {
	inited.Do(func() {
		pipeline = make(chan command)
		go runner(pipeline)
	})
	done := make(chan bool)
	pipeline <- func(state *config) {
		defer close(done)
		task(state)
	}
	<-done
}

// Set stores one value and persists the configuration file.
func Set(key string, value interface{}) {
	run(func(state *config) {
		state.viper.Set(key, value)
		state.save()
	})
}

func Get(key string) interface{} {
	var result interface{}
	run(func(state *config) {
		result = state.viper.Get(key)
	})
	return result
}

func GetString(key string) string {
	var result string
	run(func(state *config) {
		result = state.viper.GetString(key)
	})
	return result
}

// ConfigFileUsed is the location of the persistent configuration.
func ConfigFileUsed() string {
	var result string
	run(func(state *config) {
		result = state.location
	})
	return result
}

// AsGuid formats 16+ bytes of content as a dash separated guid.
func AsGuid(content []byte) string {
	result := make([]string, 0, len(guidSteps))
	for _, step := range guidSteps {
		result = append(result, fmt.Sprintf("%02x", content[:step]))
		content = content[step:]
	}
	return strings.Join(result, "-")
}

func generateRandomIdentity() string {
	now := time.Now()
	digester := sha256.New()
	content := fmt.Sprintf("ID: %v/%v/%v/%v", now.Format(time.RFC3339Nano), os.Getpid(), rand.Uint64(), rand.Uint64())
	digester.Write([]byte(content))
	return AsGuid(digester.Sum(nil))
}

// InstanceIdentity is a stable random identifier for this lockbom
// installation, created on first use. It never leaves the machine; it
// only helps telling documents from different installations apart in
// debug logs.
func InstanceIdentity() string {
	identity := GetString(identityKey)
	if len(identity) == 0 {
		identity = generateRandomIdentity()
		Set(identityKey, identity)
	}
	return identity
}
