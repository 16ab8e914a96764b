package descriptorfile

import (
	"testing"

	"github.com/justyntemme/kiroengine/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	original := graph.NewNodeDescriptor("Oscillator").
		WithStaticAudioOutputs(graph.NewAudioDescriptor("out", 1)).
		WithStaticParameters(
			graph.NewParamDescriptor("freq").WithInitial(440).WithMin(20).WithMax(20000),
		).
		WithDynamicAudioOutputs(graph.LimitedDynamicPorts(4))

	data, err := Marshal(original)
	require.NoError(t, err)

	roundtripped, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, original.Class, roundtripped.Class)
	require.Len(t, roundtripped.StaticAudioOutputs, 1)
	assert.Equal(t, "out", roundtripped.StaticAudioOutputs[0].ID())
	require.Len(t, roundtripped.StaticParameters, 1)
	assert.Equal(t, float32(440), roundtripped.StaticParameters[0].Initial)
	assert.Equal(t, graph.DynamicPortsLimited, roundtripped.DynamicAudioOutputs.Kind)
	assert.Equal(t, 4, roundtripped.DynamicAudioOutputs.Limit)
}

func TestUnmarshalUnknownDynamicPolicy(t *testing.T) {
	_, err := Unmarshal([]byte("class: Foo\ndynamicAudioOutputs:\n  policy: bogus\n"))
	assert.Error(t, err)
}

func TestUnmarshalMinimal(t *testing.T) {
	desc, err := Unmarshal([]byte("class: Gain\n"))
	require.NoError(t, err)
	assert.Equal(t, "Gain", desc.Class)
	assert.Empty(t, desc.StaticAudioInputs)
}
