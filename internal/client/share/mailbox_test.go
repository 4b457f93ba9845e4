package share

import (
	"fmt"
	"sync"
	"testing"

	"github.com/akarpov88/petkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailbox_ConsumeEmptyReportsNothing(t *testing.T) {
	m := NewMailbox()

	ref, ok := m.Consume()
	assert.False(t, ok)
	assert.True(t, ref.IsZero())
}

func TestMailbox_ConsumeDrainsExactlyOnce(t *testing.T) {
	m := NewMailbox()
	m.PutURL("https://petkeeper.example/share/tok-1")

	ref, ok := m.Consume()
	require.True(t, ok)
	assert.Equal(t, "https://petkeeper.example/share/tok-1", ref.URL)

	// second consume finds nothing even though the first arrival was real
	_, ok = m.Consume()
	assert.False(t, ok)
}

func TestMailbox_NewerOverwritesOlderOfSameKind(t *testing.T) {
	m := NewMailbox()
	m.PutURL("https://petkeeper.example/share/old")
	m.PutURL("https://petkeeper.example/share/new")

	ref, ok := m.Consume()
	require.True(t, ok)
	assert.Equal(t, "https://petkeeper.example/share/new", ref.URL)
}

func TestMailbox_URLAndMetadataSlotsAreIndependent(t *testing.T) {
	m := NewMailbox()
	m.PutURL("https://petkeeper.example/share/tok-1")
	m.PutMetadata(&models.ShareMetadata{ShareRecordName: "s1"})

	ref, ok := m.Consume()
	require.True(t, ok)
	assert.NotEmpty(t, ref.URL)
	require.NotNil(t, ref.Metadata)
	assert.Equal(t, "s1", ref.Metadata.ShareRecordName)
}

func TestMailbox_ConcurrentWritersAndOneConsumer(t *testing.T) {
	m := NewMailbox()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.PutURL(fmt.Sprintf("https://petkeeper.example/share/tok-%d", i))
		}(i)
	}
	wg.Wait()

	ref, ok := m.Consume()
	require.True(t, ok)
	assert.NotEmpty(t, ref.URL)

	_, ok = m.Consume()
	assert.False(t, ok)
}
