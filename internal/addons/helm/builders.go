package helm

// ServiceAccountValues returns serviceAccount chart values wired for IRSA.
// When roleARN is empty the annotation is omitted and the addon runs with
// the node instance role.
func ServiceAccountValues(name, roleARN string) Values {
	sa := Values{
		"create": true,
		"name":   name,
	}
	if roleARN != "" {
		sa["annotations"] = Values{
			"eks.amazonaws.com/role-arn": roleARN,
		}
	}
	return Values{"serviceAccount": sa}
}

// AutoDiscoveryValues returns the cluster-autoscaler values for tag-based
// auto-discovery of the cluster's node groups.
func AutoDiscoveryValues(clusterName, region string) Values {
	return Values{
		"autoDiscovery": Values{
			"clusterName": clusterName,
		},
		"awsRegion":     region,
		"cloudProvider": "aws",
	}
}

// CriticalAddonTolerations returns tolerations letting an addon schedule
// alongside system-critical workloads during cluster bootstrap.
func CriticalAddonTolerations() []Values {
	return []Values{
		{
			"key":      "CriticalAddonsOnly",
			"operator": "Exists",
		},
		{
			"key":      "node.kubernetes.io/not-ready",
			"operator": "Exists",
		},
	}
}

// TopologySpread returns hostname + zone topology spread constraints for an
// addon's pods.
func TopologySpread(instance, name, hostnamePolicy string) []Values {
	labelSelector := Values{
		"matchLabels": Values{
			"app.kubernetes.io/instance": instance,
			"app.kubernetes.io/name":     name,
		},
	}

	return []Values{
		{
			"topologyKey":       "kubernetes.io/hostname",
			"maxSkew":           1,
			"whenUnsatisfiable": hostnamePolicy,
			"labelSelector":     labelSelector,
		},
		{
			"topologyKey":       "topology.kubernetes.io/zone",
			"maxSkew":           1,
			"whenUnsatisfiable": "ScheduleAnyway",
			"labelSelector":     labelSelector,
		},
	}
}
