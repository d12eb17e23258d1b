package aws

import (
	"context"
	"fmt"
	"log"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// ImportKeyPair imports the public key under the given name. An existing
// key pair with the same name is kept untouched.
func (c *RealClient) ImportKeyPair(ctx context.Context, name string, publicKey []byte, tags map[string]string) error {
	input := &ec2.ImportKeyPairInput{
		KeyName:           awssdk.String(name),
		PublicKeyMaterial: publicKey,
	}
	if len(tags) > 0 {
		input.TagSpecifications = []ec2types.TagSpecification{{
			ResourceType: ec2types.ResourceTypeKeyPair,
			Tags:         ec2Tags(tags),
		}}
	}

	_, err := c.ec2.ImportKeyPair(ctx, input)
	if err != nil {
		if IsAlreadyExists(err) {
			log.Printf("key pair %s: exists, keeping", name)
			return nil
		}
		return fmt.Errorf("failed to import key pair %s: %w", name, err)
	}
	return nil
}

// DeleteKeyPair removes the key pair; missing is fine.
func (c *RealClient) DeleteKeyPair(ctx context.Context, name string) error {
	_, err := c.ec2.DeleteKeyPair(ctx, &ec2.DeleteKeyPairInput{KeyName: awssdk.String(name)})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete key pair %s: %w", name, err)
	}
	return nil
}

func ec2Tags(tags map[string]string) []ec2types.Tag {
	out := make([]ec2types.Tag, 0, len(tags))
	for k, v := range tags {
		out = append(out, ec2types.Tag{Key: awssdk.String(k), Value: awssdk.String(v)})
	}
	return out
}
