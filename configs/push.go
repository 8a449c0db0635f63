package configs

// PushConfig holds the VAPID key pair for web push delivery.
type PushConfig struct {
	VapidPublicKey  string `yaml:"vapid_public_key"`
	VapidPrivateKey string `yaml:"vapid_private_key"`
	// SubscriberEmail identifies the sender to push services (mailto: contact).
	SubscriberEmail string `yaml:"subscriber_email"`
}
