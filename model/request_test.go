package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVirtualTryOnRequestShape(t *testing.T) {
	request := VirtualTryOnRequest{
		Instances: []VirtualTryOnInstance{{
			PersonImage:   NewEncodedImage("cGVyc29u"),
			ProductImages: []EncodedImage{NewEncodedImage("Z2FybWVudA==")},
		}},
		Parameters: VirtualTryOnParameters{
			SampleCount:   1,
			OutputOptions: OutputOptions{MimeType: "image/png"},
		},
	}

	data, err := json.Marshal(request)
	require.NoError(t, err)
	require.JSONEq(t, `{
	  "instances": [{
	    "personImage": {"image": {"bytesBase64Encoded": "cGVyc29u"}},
	    "productImages": [{"image": {"bytesBase64Encoded": "Z2FybWVudA=="}}]
	  }],
	  "parameters": {
	    "addWatermark": false,
	    "sampleCount": 1,
	    "outputOptions": {"mimeType": "image/png"}
	  }
	}`, string(data))
}
